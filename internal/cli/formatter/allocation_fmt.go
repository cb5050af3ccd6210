package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

const loadBarWidth = 12

// FormatAllocationSummary describes a finished run and the review load per
// group. The CSV itself is written separately.
func FormatAllocationSummary(resp *contract.AllocateResponse) string {
	run := resp.Run
	id := Dim("dry run, not stored")
	if run.ID != "" {
		id = Bold(run.DisplayID())
	}

	info := KeyValues([][2]string{
		{"run", id},
		{"students", strconv.Itoa(resp.Roster.Size())},
		{"groups", strconv.Itoa(resp.Roster.GroupCount())},
		{"per student", strconv.Itoa(resp.Result.K)},
		{"strategy", string(run.Strategy)},
		{"seed", strconv.FormatInt(run.Seed, 10)},
		{"draws", fmt.Sprintf("%d (%d rejected)", resp.Result.Draws, resp.Result.Rejections)},
	})

	var b strings.Builder
	b.WriteString(RenderBox("Allocation", info))
	b.WriteString("\n\n")
	b.WriteString(FormatLoad(resp.Roster, resp.Result))
	return b.String()
}

// FormatLoad renders one row per group: members, quota and actual load.
func FormatLoad(idx *roster.Index, res *allocator.Result) string {
	load := res.Load()
	maxLoad := 0
	for _, q := range res.Quotas {
		maxLoad = max(maxLoad, q.Slots, load[q.Group])
	}

	rows := make([][]string, 0, len(res.Quotas))
	for _, q := range res.Quotas {
		rows = append(rows, []string{
			q.Group.String(),
			strconv.Itoa(len(idx.Members(q.Group))),
			strconv.Itoa(q.Slots),
			strconv.Itoa(load[q.Group]),
			RenderLoadBar(load[q.Group], q.Slots, maxLoad, loadBarWidth),
		})
	}
	return Table{
		Headers: []string{"GROUP", "MEMBERS", "QUOTA", "LOAD", ""},
		Rows:    rows,
		Right:   map[int]bool{0: true, 1: true, 2: true, 3: true},
	}.Render()
}

// FormatQuotas renders the per-group review quotas for a roster.
func FormatQuotas(resp *contract.QuotasResponse) string {
	rows := make([][]string, 0, len(resp.Quotas))
	for _, q := range resp.Quotas {
		rows = append(rows, []string{q.Group.String(), strconv.Itoa(q.Slots)})
	}

	var b strings.Builder
	b.WriteString(Table{
		Headers: []string{"GROUP", "QUOTA"},
		Rows:    rows,
		Right:   map[int]bool{0: true, 1: true},
	}.Render())
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d students × %d = %d review slots over %d groups, %d to %d per group",
		resp.Students, resp.K, resp.Students*resp.K, resp.Groups, resp.MinLoad, resp.MaxLoad)))
	b.WriteString("\n")
	return b.String()
}

// FormatAssignments renders the assignment sheet as a terminal table.
func FormatAssignments(k int, order []domain.StudentID, own map[domain.StudentID]domain.GroupID, groups map[domain.StudentID][]domain.GroupID) string {
	headers := []string{"STUDENT", "OWN"}
	for i := 1; i <= k; i++ {
		headers = append(headers, fmt.Sprintf("G%d", i))
	}
	right := map[int]bool{1: true}
	for i := 2; i < len(headers); i++ {
		right[i] = true
	}

	rows := make([][]string, 0, len(order))
	for _, s := range order {
		row := []string{string(s), Dim(own[s].String())}
		for _, g := range groups[s] {
			row = append(row, g.String())
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows, Right: right}.Render()
}

// FailureHint suggests a next step for a failed allocation, or "" if none.
func FailureHint(code contract.AllocationErrorCode) string {
	switch code {
	case contract.ErrCodeStalledAllocation:
		return "retry with a different --seed, or use --strategy flow"
	case contract.ErrCodeInfeasibleQuotas:
		return "one group is too large for balanced loads; lower -k or split the group"
	case contract.ErrCodeInsufficientGroups:
		return "-k must be smaller than the number of groups"
	case contract.ErrCodeDuplicateMembership, contract.ErrCodeParse:
		return "fix the roster file and run again"
	default:
		return ""
	}
}
