package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/report"
	"github.com/alexanderramin/peerassign/internal/repository"
	"github.com/alexanderramin/peerassign/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocateStored(t *testing.T, svc testServices, text string, k int, seed int64) *contract.AllocateResponse {
	t.Helper()
	req := contract.NewAllocateRequest(text)
	req.AssignmentsPerStudent = k
	req.Seed = seedPtr(seed)
	req.Strategy = domain.StrategyFlow
	resp, err := svc.alloc.Allocate(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestRunService_ExportMatchesOriginalCSV(t *testing.T) {
	svc := setupServices(t)
	text := "3\tzed\tamy\n1\tbob\tcy\n2\tdee\n4\teli\tfox\tgus"
	resp := allocateStored(t, svc, text, 2, 99)

	want, err := report.FormatCSV(resp.Roster, resp.Result)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.runs.Export(context.Background(), resp.Run.ID, &buf))
	assert.Equal(t, want, buf.String())
}

func TestRunService_GetByPrefix(t *testing.T) {
	svc := setupServices(t)
	resp := allocateStored(t, svc, testutil.RosterText(testutil.GroupsOfSizes(2, 2, 2)...), 1, 5)

	detail, err := svc.runs.Get(context.Background(), resp.Run.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, resp.Run.ID, detail.Run.ID)
	assert.Len(t, detail.Assignments, 6)
	assert.Len(t, detail.Roster.Members, 6)
}

func TestRunService_ExportFailedRun(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	req := contract.NewAllocateRequest(testutil.RosterText(testutil.GroupsOfSizes(2, 2)...))
	req.AssignmentsPerStudent = 3
	_, err := svc.alloc.Allocate(ctx, req)
	require.Error(t, err)

	runs, err := svc.runs.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	var buf bytes.Buffer
	err = svc.runs.Export(ctx, runs[0].ID, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSUFFICIENT_GROUPS")
	assert.Zero(t, buf.Len())
}

func TestRunService_DeleteRemovesRosterSnapshot(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	resp := allocateStored(t, svc, testutil.RosterText(testutil.GroupsOfSizes(2, 2, 2)...), 2, 11)

	require.NoError(t, svc.runs.Delete(ctx, resp.Run.ID))

	for _, table := range []string{"rosters", "roster_members", "allocation_runs", "assignments"} {
		assert.Zero(t, testutil.CountRows(t, svc.db, table), table)
	}
	ev := svc.observer.last()
	assert.Equal(t, "delete-run", ev.Name)
	assert.Equal(t, true, ev.Fields["roster_removed"])

	err := svc.runs.Delete(ctx, resp.Run.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunService_ListNewestFirst(t *testing.T) {
	svc := setupServices(t)
	text := testutil.RosterText(testutil.GroupsOfSizes(2, 2, 2)...)
	first := allocateStored(t, svc, text, 1, 1)
	second := allocateStored(t, svc, text, 1, 2)

	runs, err := svc.runs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.Run.ID, runs[0].ID)
	assert.Equal(t, first.Run.ID, runs[1].ID)
}
