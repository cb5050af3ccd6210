// Package roster turns a tab-separated group membership table into the
// lookup structures used by the allocator.
package roster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/peerassign/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Row is one group and its members, in input order.
type Row struct {
	Group   domain.GroupID
	Members []domain.StudentID
	Line    int
}

// Index is the read-only view derived from a roster. Groups and Students keep
// first-appearance order; the allocator depends on that order.
type Index struct {
	GroupMembers map[domain.GroupID][]domain.StudentID
	StudentGroup map[domain.StudentID]domain.GroupID
	Groups       []domain.GroupID
	Students     []domain.StudentID
}

// Parse reads `<group>\t<member>\t<member>...` rows. Blank lines and empty
// member cells are ignored.
func Parse(r io.Reader) (*Index, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return New(rows)
}

// ParseString is Parse over an in-memory roster.
func ParseString(s string) (*Index, error) {
	return Parse(strings.NewReader(s))
}

// ReadRows splits and validates rows without building the index.
func ReadRows(r io.Reader) ([]Row, error) {
	var rows []Row
	// Spreadsheet exports are often UTF-16 or carry a UTF-8 BOM.
	sc := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row, err := parseRow(line, lineNo)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return rows, nil
}

func parseRow(line string, lineNo int) (Row, error) {
	cells := strings.Split(line, "\t")
	if len(cells) < 2 {
		return Row{}, &ParseError{Line: lineNo, Msg: "group has no members"}
	}

	groupCell := strings.TrimSpace(cells[0])
	n, err := strconv.Atoi(groupCell)
	if err != nil {
		return Row{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid group id %q", groupCell)}
	}
	if n <= 0 {
		return Row{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("group id must be positive, got %d", n)}
	}

	row := Row{Group: domain.GroupID(n), Line: lineNo}
	for _, c := range cells[1:] {
		// NFC so visually identical names compare equal.
		member := norm.NFC.String(strings.TrimSpace(c))
		if member == "" {
			continue
		}
		row.Members = append(row.Members, domain.StudentID(member))
	}
	if len(row.Members) == 0 {
		return Row{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("group %d has no members", n)}
	}
	return row, nil
}

// New builds an Index from rows. A group may appear on only one row and a
// student under only one group.
func New(rows []Row) (*Index, error) {
	idx := &Index{
		GroupMembers: make(map[domain.GroupID][]domain.StudentID, len(rows)),
		StudentGroup: make(map[domain.StudentID]domain.GroupID),
	}
	groupLine := make(map[domain.GroupID]int, len(rows))

	for _, row := range rows {
		if row.Group <= 0 {
			return nil, &ParseError{Line: row.Line, Msg: fmt.Sprintf("group id must be positive, got %d", row.Group)}
		}
		if len(row.Members) == 0 {
			return nil, &ParseError{Line: row.Line, Msg: fmt.Sprintf("group %d has no members", row.Group)}
		}
		if prev, dup := groupLine[row.Group]; dup {
			return nil, &ParseError{Line: row.Line, Msg: fmt.Sprintf("group %d already listed on line %d", row.Group, prev)}
		}
		groupLine[row.Group] = row.Line

		for _, s := range row.Members {
			if s == "" {
				return nil, &ParseError{Line: row.Line, Msg: "empty student id"}
			}
			if g, seen := idx.StudentGroup[s]; seen {
				return nil, &DuplicateMembershipError{Student: s, First: g, Second: row.Group, Line: row.Line}
			}
			idx.StudentGroup[s] = row.Group
			idx.Students = append(idx.Students, s)
		}
		idx.Groups = append(idx.Groups, row.Group)
		idx.GroupMembers[row.Group] = append([]domain.StudentID(nil), row.Members...)
	}

	if len(idx.Groups) == 0 || len(idx.Students) == 0 {
		return nil, ErrEmptyRoster
	}
	return idx, nil
}

// GroupOf returns the group a student belongs to.
func (x *Index) GroupOf(s domain.StudentID) (domain.GroupID, bool) {
	g, ok := x.StudentGroup[s]
	return g, ok
}

// Members returns the members of g in roster order.
func (x *Index) Members(g domain.GroupID) []domain.StudentID {
	return x.GroupMembers[g]
}

// Size returns the number of students.
func (x *Index) Size() int { return len(x.Students) }

// GroupCount returns the number of distinct groups.
func (x *Index) GroupCount() int { return len(x.Groups) }

// Rows converts the index back to rows in roster order.
func (x *Index) Rows() []Row {
	rows := make([]Row, 0, len(x.Groups))
	for i, g := range x.Groups {
		rows = append(rows, Row{
			Group:   g,
			Members: append([]domain.StudentID(nil), x.GroupMembers[g]...),
			Line:    i + 1,
		})
	}
	return rows
}

// Format renders the index back to the tab-separated input format.
func (x *Index) Format() string {
	var b strings.Builder
	for _, g := range x.Groups {
		b.WriteString(g.String())
		for _, s := range x.GroupMembers[g] {
			b.WriteByte('\t')
			b.WriteString(string(s))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
