package domain

import (
	"slices"
	"strconv"
)

// GroupID identifies a group of students. Valid IDs are positive.
type GroupID int

func (g GroupID) String() string {
	return strconv.Itoa(int(g))
}

// StudentID is an opaque student identifier, typically an email address.
type StudentID string

// SortGroups sorts group IDs ascending in place.
func SortGroups(gs []GroupID) {
	slices.Sort(gs)
}

// ContainsGroup reports whether g is present in gs.
func ContainsGroup(gs []GroupID, g GroupID) bool {
	return slices.Contains(gs, g)
}
