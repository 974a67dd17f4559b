package exprtab

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/carbocation/expreport"
	"github.com/carbocation/pfx"
)

// Design is a samples-by-metadata table: one row per sample, one column per
// metadata field. Beyond the named fields the caller asks for, the schema is
// open-ended.
type Design struct {
	Columns []string
	Rows    [][]string
}

// LoadDesign reads the delimited sample-design table.
func LoadDesign(path string) (*Design, error) {
	rc, err := expreport.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := expreport.DetermineDelimiter(bytes.NewReader(raw))

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = delim
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(records) < 1 {
		return nil, pfx.Err(fmt.Errorf("design table %s: missing header row", path))
	}

	return &Design{Columns: records[0], Rows: records[1:]}, nil
}

// ColumnIndex returns the position of the named column, if present.
func (d *Design) ColumnIndex(name string) (int, bool) {
	for i, col := range d.Columns {
		if col == name {
			return i, true
		}
	}

	return -1, false
}

// Column returns the named column's values, one per sample row.
func (d *Design) Column(name string) ([]string, error) {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return nil, pfx.Err(fmt.Errorf("design table has no column named %q", name))
	}

	out := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		out = append(out, row[idx])
	}

	return out, nil
}

// DistinctValues returns the column's distinct values in order of first
// appearance.
func (d *Design) DistinctValues(name string) ([]string, error) {
	vals, err := d.Column(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range vals {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out, nil
}

// GroupCount is one row of a per-column frequency table.
type GroupCount struct {
	Value string
	N     int
}

// GroupCounts lists a column's distinct values with the number of sample
// rows holding each, sorted non-increasing by count (ties broken by value so
// the output is deterministic).
type GroupCounts []GroupCount

// GroupCounts tallies the named column.
func (d *Design) GroupCounts(name string) (GroupCounts, error) {
	vals, err := d.Column(name)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range vals {
		counts[v]++
	}

	out := make(GroupCounts, 0, len(counts))
	for v, n := range counts {
		out = append(out, GroupCount{Value: v, N: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Value < out[j].Value
	})

	return out, nil
}

// CanonicalTissue normalizes a free-text tissue label: case-folded, stripped
// of species-name tokens, and trimmed. The inputs are assumed to be
// human-only, so "homo sapiens " and "human" are removed as literal tokens.
// Applying the transform twice yields the same result as once.
func CanonicalTissue(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "homo sapiens ", "")
	s = strings.ReplaceAll(s, "human", "")

	return strings.TrimSpace(s)
}

// CanonicalizeTissue replaces the named column with its canonical form,
// keeping the raw text in a new "<name>_original" column.
func (d *Design) CanonicalizeTissue(name string) error {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return pfx.Err(fmt.Errorf("design table has no column named %q", name))
	}

	d.Columns = append(d.Columns, name+"_original")
	for i, row := range d.Rows {
		d.Rows[i] = append(row, row[idx])
		d.Rows[i][idx] = CanonicalTissue(row[idx])
	}

	return nil
}

// RelabelWithCounts replaces each value of the named column with
// "<value> (<count>)", where count is the number of sample rows sharing that
// value. Meant to run after CanonicalizeTissue so equivalent spellings have
// already collapsed.
func (d *Design) RelabelWithCounts(name string) error {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return pfx.Err(fmt.Errorf("design table has no column named %q", name))
	}

	counts, err := d.GroupCounts(name)
	if err != nil {
		return err
	}

	byValue := make(map[string]int, len(counts))
	for _, gc := range counts {
		byValue[gc.Value] = gc.N
	}

	for i := range d.Rows {
		v := d.Rows[i][idx]
		d.Rows[i][idx] = fmt.Sprintf("%s (%d)", v, byValue[v])
	}

	return nil
}
