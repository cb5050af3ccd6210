package formatter

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/peerassign/internal/contract"
	"github.com/alexanderramin/peerassign/internal/domain"
)

// FormatRunList renders stored runs, newest first.
func FormatRunList(runs []*domain.AllocationRun, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs stored yet.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			RunStatusPill(r.Status),
			strconv.Itoa(r.AssignmentsPerStudent),
			string(r.Strategy),
			strconv.FormatInt(r.Seed, 10),
			HumanTimestampFrom(r.CreatedAt, now),
			r.ErrorCode,
		})
	}
	return Table{
		Headers: []string{"ID", "STATUS", "K", "STRATEGY", "SEED", "CREATED", "ERROR"},
		Rows:    rows,
		Right:   map[int]bool{2: true},
	}.Render()
}

// FormatRunDetail renders a stored run with its assignment sheet.
func FormatRunDetail(d *contract.RunDetail) string {
	run := d.Run
	pairs := [][2]string{
		{"run", Bold(run.ID)},
		{"status", RunStatusPill(run.Status)},
		{"roster", d.Roster.Name},
		{"students", strconv.Itoa(d.Roster.StudentCount)},
		{"groups", strconv.Itoa(d.Roster.GroupCount)},
		{"per student", strconv.Itoa(run.AssignmentsPerStudent)},
		{"strategy", string(run.Strategy)},
		{"seed", strconv.FormatInt(run.Seed, 10)},
		{"created", run.CreatedAt.Local().Format("2006-01-02 15:04:05")},
	}
	if run.Status == domain.RunFailed {
		pairs = append(pairs, [2]string{"error", StyleRed.Render(run.ErrorCode) + " " + run.ErrorMessage})
	}

	var b strings.Builder
	b.WriteString(Header("Run"))
	b.WriteString("\n")
	b.WriteString(KeyValues(pairs))
	b.WriteString("\n")
	if len(d.Assignments) == 0 {
		return b.String()
	}

	order := make([]domain.StudentID, 0, len(d.Roster.Members))
	own := make(map[domain.StudentID]domain.GroupID, len(d.Roster.Members))
	for _, m := range d.Roster.Members {
		order = append(order, m.StudentID)
		own[m.StudentID] = m.GroupID
	}
	groups := make(map[domain.StudentID][]domain.GroupID, len(order))
	for _, a := range d.Assignments {
		groups[a.StudentID] = append(groups[a.StudentID], a.GroupID)
	}

	load := d.Load()
	ids := make([]domain.GroupID, 0, len(load))
	for g := range load {
		ids = append(ids, g)
	}
	slices.Sort(ids)
	parts := make([]string, 0, len(ids))
	for _, g := range ids {
		parts = append(parts, g.String()+":"+strconv.Itoa(load[g]))
	}

	b.WriteString("\n")
	b.WriteString(Header("Assignments"))
	b.WriteString("\n")
	b.WriteString(FormatAssignments(run.AssignmentsPerStudent, order, own, groups))
	b.WriteString("\n")
	b.WriteString(Dim("load  " + strings.Join(parts, "  ")))
	b.WriteString("\n")
	return b.String()
}
