package domain

import "time"

// Roster is a stored group membership table.
type Roster struct {
	ID           string
	Name         string
	GroupCount   int
	StudentCount int
	Members      []Membership
	CreatedAt    time.Time
}

// Membership places a student in a group. Position preserves roster order.
type Membership struct {
	GroupID   GroupID
	StudentID StudentID
	Position  int
}
