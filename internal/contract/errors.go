package contract

import (
	"context"
	"errors"

	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/roster"
)

type AllocationErrorCode string

const (
	ErrCodeParse               AllocationErrorCode = "PARSE_ERROR"
	ErrCodeDuplicateMembership AllocationErrorCode = "DUPLICATE_MEMBERSHIP"
	ErrCodeInsufficientGroups  AllocationErrorCode = "INSUFFICIENT_GROUPS"
	ErrCodeEmptyRoster         AllocationErrorCode = "EMPTY_ROSTER"
	ErrCodeStalledAllocation   AllocationErrorCode = "STALLED_ALLOCATION"
	ErrCodeInfeasibleQuotas    AllocationErrorCode = "INFEASIBLE_QUOTAS"
	ErrCodeInvalidConfig       AllocationErrorCode = "INVALID_CONFIG"
	ErrCodeCancelled           AllocationErrorCode = "CANCELLED"
	ErrCodeInternalError       AllocationErrorCode = "INTERNAL_ERROR"
)

// AllocationError carries a stable code alongside the underlying error.
type AllocationError struct {
	Code    AllocationErrorCode
	Message string
	Err     error
}

func (e *AllocationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *AllocationError) Unwrap() error { return e.Err }

// CodeFor maps roster and allocator errors onto their stable code.
func CodeFor(err error) AllocationErrorCode {
	var ae *AllocationError
	switch {
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, roster.ErrParse):
		return ErrCodeParse
	case errors.Is(err, roster.ErrDuplicateMembership):
		return ErrCodeDuplicateMembership
	case errors.Is(err, roster.ErrEmptyRoster):
		return ErrCodeEmptyRoster
	case errors.Is(err, allocator.ErrInsufficientGroups):
		return ErrCodeInsufficientGroups
	case errors.Is(err, allocator.ErrStalledAllocation):
		return ErrCodeStalledAllocation
	case errors.Is(err, allocator.ErrInfeasibleQuotas):
		return ErrCodeInfeasibleQuotas
	case errors.Is(err, allocator.ErrInvalidConfig):
		return ErrCodeInvalidConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCancelled
	default:
		return ErrCodeInternalError
	}
}

// NewAllocationError wraps err with its code. A nil err yields nil.
func NewAllocationError(err error) *AllocationError {
	if err == nil {
		return nil
	}
	var ae *AllocationError
	if errors.As(err, &ae) {
		return ae
	}
	return &AllocationError{Code: CodeFor(err), Message: err.Error(), Err: err}
}
