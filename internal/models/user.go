package models

import "time"

// User is a profile row keyed by the external identity provider's subject
// id. The service never mints ids of its own for people.
type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Role            string    `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Location        string    `json:"location,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Skills          []string  `json:"skills,omitempty"`
	ExperienceYears int       `json:"experience_years,omitempty"`
	MinPrice        float64   `json:"min_price,omitempty"`
	TelegramChatID  int64     `json:"telegram_chat_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsWorker reports whether the profile can be offered bookings and jobs.
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}
