package repo

import "time"

type ActivityFilter struct {
	EntityType string
	Since      *time.Time
	Until      *time.Time
	Offset     *int
	Limit      *int
}
