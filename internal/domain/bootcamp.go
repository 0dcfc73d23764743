package domain

import (
	"time"
)

// Bootcamp represents a training program referencing 1-4 capacities owned
// by the capacity service. The capacity ids are the only locally persisted
// trace of that relationship.
type Bootcamp struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	LaunchDate  time.Time `json:"launch_date" db:"launch_date"`
	Duration    int       `json:"duration" db:"duration"`
	CapacityIDs []int64   `json:"capacity_ids"`
}

// EndDate returns the inclusive last day of the bootcamp.
func (b Bootcamp) EndDate() time.Time {
	return b.LaunchDate.AddDate(0, 0, b.Duration)
}

// Overlaps reports whether the date ranges of two bootcamps intersect.
// Boundaries are inclusive: a bootcamp starting the day another ends
// still overlaps it.
func (b Bootcamp) Overlaps(other Bootcamp) bool {
	return !(b.EndDate().Before(other.LaunchDate) || b.LaunchDate.After(other.EndDate()))
}

// TechnologySummary is a technology as reported by the capacity service.
type TechnologySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CapacitySummary is a capacity as reported by the capacity service,
// optionally carrying its technologies. Never persisted locally.
type CapacitySummary struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Technologies []TechnologySummary `json:"technologies"`
}

// BootcampWithCapacities is the read model for listing and single fetch:
// a bootcamp with its capacity ids resolved against the capacity service.
// Built on demand, never stored.
type BootcampWithCapacities struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LaunchDate  time.Time         `json:"launch_date"`
	Duration    int               `json:"duration"`
	Capacities  []CapacitySummary `json:"capacities"`
}
