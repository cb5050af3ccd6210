// Package report renders allocation results in the CSV layout consumed by
// course staff: Student, Own group, then the K assigned groups.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/alexanderramin/peerassign/internal/allocator"
	"github.com/alexanderramin/peerassign/internal/domain"
	"github.com/alexanderramin/peerassign/internal/roster"
)

// Header returns the CSV header for k assignments per student.
func Header(k int) []string {
	h := make([]string, 0, k+2)
	h = append(h, "Student", "Own group")
	for i := 1; i <= k; i++ {
		h = append(h, fmt.Sprintf("Group %d", i))
	}
	return h
}

// Rows returns one record per student in roster order.
func Rows(idx *roster.Index, res *allocator.Result) [][]string {
	rows := make([][]string, 0, len(idx.Students))
	for _, s := range idx.Students {
		rec := make([]string, 0, res.K+2)
		rec = append(rec, string(s), idx.StudentGroup[s].String())
		for _, g := range res.Assignments[s] {
			rec = append(rec, g.String())
		}
		rows = append(rows, rec)
	}
	return rows
}

// WriteCSV writes the header and all rows to w. Lines end in "\n" and the
// last row has no trailing newline, matching the sheet-import format.
func WriteCSV(w io.Writer, idx *roster.Index, res *allocator.Result) error {
	return writeRecords(w, Header(res.K), Rows(idx, res))
}

// FormatCSV is WriteCSV into a string.
func FormatCSV(idx *roster.Index, res *allocator.Result) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, idx, res); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteAssignments writes stored assignments, grouped per student in the
// given order, for runs loaded back from the database.
func WriteAssignments(w io.Writer, k int, order []domain.StudentID, own map[domain.StudentID]domain.GroupID, groups map[domain.StudentID][]domain.GroupID) error {
	rows := make([][]string, 0, len(order))
	for _, s := range order {
		rec := []string{string(s), own[s].String()}
		for _, g := range groups[s] {
			rec = append(rec, g.String())
		}
		rows = append(rows, rec)
	}
	return writeRecords(w, Header(k), rows)
}

func writeRecords(w io.Writer, header []string, rows [][]string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
