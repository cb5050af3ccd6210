package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestTable_AlignsColumns(t *testing.T) {
	out := stripANSI(Table{
		Headers: []string{"NAME", "N"},
		Rows:    [][]string{{"a", "1"}, {"long-name", "10"}},
		Right:   map[int]bool{1: true},
	}.Render())

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME        N", lines[0])
	assert.Equal(t, "─────────  ──", lines[1])
	assert.Equal(t, "a           1", lines[2])
	assert.Equal(t, "long-name  10", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestRenderLoadBar(t *testing.T) {
	bar := stripANSI(RenderLoadBar(2, 4, 4, 8))
	assert.Equal(t, strings.Repeat(filledBlock, 4)+strings.Repeat(emptyBlock, 4), bar)

	full := stripANSI(RenderLoadBar(9, 4, 4, 4))
	assert.Equal(t, strings.Repeat(filledBlock, 4), full, "overload clamps to width")

	empty := stripANSI(RenderLoadBar(1, 1, 0, 3))
	assert.Equal(t, strings.Repeat(emptyBlock, 3), empty)
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "4d ago", HumanTimestampFrom(now.Add(-4*24*time.Hour), now))
}

func allocated(t *testing.T) *contract.AllocateResponse {
	t.Helper()
	idx, err := roster.ParseString("1\tann\tben\n2\tcat\tdan\n3\teve\tfay")
	require.NoError(t, err)
	cfg := allocator.DefaultConfig()
	cfg.AssignmentsPerStudent = 2
	cfg.Rand = allocator.NewSeededRand(4)
	res, err := allocator.Allocate(t.Context(), idx, cfg)
	require.NoError(t, err)
	return &contract.AllocateResponse{
		Run: &domain.AllocationRun{
			ID:                    "9f1c2d3e-aaaa-bbbb-cccc-000000000000",
			AssignmentsPerStudent: 2,
			Seed:                  4,
			Strategy:              domain.StrategyRejection,
			Status:                domain.RunSucceeded,
		},
		Roster: idx,
		Result: res,
	}
}

func TestFormatAllocationSummary(t *testing.T) {
	out := stripANSI(FormatAllocationSummary(allocated(t)))

	assert.Contains(t, out, "ALLOCATION")
	assert.Contains(t, out, "9f1c2d3e")
	assert.NotContains(t, out, "9f1c2d3e-aaaa")
	assert.Contains(t, out, "seed")
	assert.Contains(t, out, "GROUP")
	assert.Contains(t, out, "QUOTA")
}

func TestFormatAllocationSummary_DryRun(t *testing.T) {
	resp := allocated(t)
	resp.Run.ID = ""
	assert.Contains(t, stripANSI(FormatAllocationSummary(resp)), "dry run")
}

func TestFormatLoad_OneRowPerGroup(t *testing.T) {
	resp := allocated(t)
	out := stripANSI(FormatLoad(resp.Roster, resp.Result))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 2+3)
	for _, l := range lines[2:] {
		assert.Regexp(t, `^\s*[123]\s+2\s+4\s+4\s+█+$`, l)
	}
}

func TestFormatQuotas(t *testing.T) {
	out := stripANSI(FormatQuotas(&contract.QuotasResponse{
		Students: 5, Groups: 2, K: 1,
		Quotas:  []allocator.Quota{{Group: 1, Slots: 3}, {Group: 2, Slots: 2}},
		MinLoad: 2, MaxLoad: 3,
	}))
	assert.Contains(t, out, "5 students × 1 = 5 review slots over 2 groups, 2 to 3 per group")
	assert.Contains(t, out, "    1      3")
}

func TestFormatRunList(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	runs := []*domain.AllocationRun{
		{ID: "aaaaaaaa-1", Status: domain.RunSucceeded, AssignmentsPerStudent: 5, Strategy: domain.StrategyFlow, Seed: 12, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "bbbbbbbb-2", Status: domain.RunFailed, AssignmentsPerStudent: 3, Strategy: domain.StrategyRejection, ErrorCode: "STALLED_ALLOCATION", CreatedAt: now.Add(-time.Minute)},
	}
	out := stripANSI(FormatRunList(runs, now))
	assert.Contains(t, out, "aaaaaaaa")
	assert.NotContains(t, out, "aaaaaaaa-1")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "STALLED_ALLOCATION")
	assert.Contains(t, out, "2h ago")

	assert.Contains(t, FormatRunList(nil, now), "No runs")
}

func TestFormatRunDetail(t *testing.T) {
	d := &contract.RunDetail{
		Run: &domain.AllocationRun{ID: "run-1", Status: domain.RunSucceeded, AssignmentsPerStudent: 1, Strategy: domain.StrategyRejection},
		Roster: &domain.Roster{Name: "week-1", GroupCount: 2, StudentCount: 2, Members: []domain.Membership{
			{GroupID: 1, StudentID: "ann", Position: 0},
			{GroupID: 2, StudentID: "ben", Position: 1},
		}},
		Assignments: []domain.Assignment{
			{StudentID: "ann", GroupID: 2, Slot: 1},
			{StudentID: "ben", GroupID: 1, Slot: 1},
		},
	}
	out := stripANSI(FormatRunDetail(d))
	assert.Contains(t, out, "week-1")
	assert.Contains(t, out, "ASSIGNMENTS")
	assert.Regexp(t, `ann\s+1\s+2`, out)
	assert.Contains(t, out, "load  1:1  2:1")
}

func TestFormatRunDetail_FailedRunHasNoSheet(t *testing.T) {
	d := &contract.RunDetail{
		Run:    &domain.AllocationRun{ID: "run-2", Status: domain.RunFailed, ErrorCode: "INSUFFICIENT_GROUPS", ErrorMessage: "k too large", AssignmentsPerStudent: 2, Strategy: domain.StrategyRejection},
		Roster: &domain.Roster{Name: "r"},
	}
	out := stripANSI(FormatRunDetail(d))
	assert.Contains(t, out, "INSUFFICIENT_GROUPS k too large")
	assert.NotContains(t, out, "ASSIGNMENTS")
}

func TestFailureHint(t *testing.T) {
	assert.Contains(t, FailureHint(contract.ErrCodeStalledAllocation), "--strategy flow")
	assert.Empty(t, FailureHint(contract.ErrCodeInternalError))
}
