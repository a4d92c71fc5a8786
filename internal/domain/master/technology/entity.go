package technology

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

type Technology struct {
	ID        string
	Name      string
	IconPath  *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
