package roster

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/peerassign/internal/domain"
)

var (
	// ErrParse indicates a malformed roster row.
	ErrParse = errors.New("roster parse error")

	// ErrDuplicateMembership indicates a student listed more than once.
	ErrDuplicateMembership = errors.New("duplicate membership")

	// ErrEmptyRoster indicates a roster with no groups or no students.
	ErrEmptyRoster = errors.New("empty roster")
)

// ParseError reports a malformed row. Line is 1-based; zero when the row did
// not come from text input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return ErrParse }

// DuplicateMembershipError reports a student listed under First and again
// under Second. First == Second when the student is repeated within one row.
type DuplicateMembershipError struct {
	Student domain.StudentID
	First   domain.GroupID
	Second  domain.GroupID
	Line    int
}

func (e *DuplicateMembershipError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("line %d: student %q listed twice in group %d", e.Line, e.Student, e.First)
	}
	return fmt.Sprintf("line %d: student %q listed in group %d and group %d", e.Line, e.Student, e.First, e.Second)
}

func (e *DuplicateMembershipError) Unwrap() error { return ErrDuplicateMembership }
