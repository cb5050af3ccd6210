package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/peerassign/internal/repository"
	"github.com/alexanderramin/peerassign/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type testServices struct {
	db       *sql.DB
	alloc    AllocationService
	runs     RunService
	observer *recordingObserver
}

func setupServices(t *testing.T) testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}
	return testServices{
		db:    database,
		alloc: NewAllocationService(uow, obs),
		runs: NewRunService(
			repository.NewSQLiteRosterRepo(database),
			repository.NewSQLiteRunRepo(database),
			uow,
			obs,
		),
		observer: obs,
	}
}

func seedPtr(v int64) *int64 { return &v }
