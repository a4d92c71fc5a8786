package position

import "time"

type Position struct {
	ID           string
	Name         string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	DepartmentName *string
}
