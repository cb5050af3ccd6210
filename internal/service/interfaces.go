package service

import (
	"context"
	"io"

	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
)

type AllocationService interface {
	Allocate(ctx context.Context, req contract.AllocateRequest) (*contract.AllocateResponse, error)
	Quotas(ctx context.Context, rosterText string, k int) (*contract.QuotasResponse, error)
}

// RunService reads and manages stored runs. ref is a full run ID or a
// unique prefix of one.
type RunService interface {
	List(ctx context.Context, limit int) ([]*domain.AllocationRun, error)
	Get(ctx context.Context, ref string) (*contract.RunDetail, error)
	Export(ctx context.Context, ref string, w io.Writer) error
	Delete(ctx context.Context, ref string) error
}
