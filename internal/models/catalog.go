package models

import "time"

type ServiceCategory struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
}

type Service struct {
	ID              string    `yaml:"id" json:"id"`
	CategoryID      string    `yaml:"category_id" json:"category_id"`
	Name            string    `yaml:"name" json:"name"`
	Description     string    `yaml:"description" json:"description"`
	BasePrice       float64   `yaml:"base_price" json:"base_price"`
	DurationMinutes int       `yaml:"duration_minutes" json:"duration_minutes"`
	CreatedAt       time.Time `yaml:"-" json:"created_at"`
}
