package models

import "time"

type ActivityLog struct {
	ID         int       `json:"id"`
	UserID     *int      `json:"userId"`
	Activity   string    `json:"activity"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   *int      `json:"entityId"`
	Timestamp  time.Time `json:"timestamp"`
}
