package model

import "time"

const DefaultSubjectColor = "#000000"

type Subject struct {
	ID          int64     `json:"_id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}
