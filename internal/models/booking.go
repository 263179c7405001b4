package models

import "time"

type Booking struct {
	ID                  string     `json:"id"`
	CustomerID          string     `json:"customer_id"`
	WorkerID            string     `json:"worker_id"`
	ServiceID           string     `json:"service_id"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	PreferredDate       string     `json:"preferred_date"`
	PreferredTime       string     `json:"preferred_time"`
	SpecialInstructions string     `json:"special_instructions"`
	CustomerPhone       string     `json:"customer_phone"`
	OfferedPrice        float64    `json:"offered_price"`
	FinalPrice          *float64   `json:"final_price,omitempty"`
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int64      `json:"version"`
}
