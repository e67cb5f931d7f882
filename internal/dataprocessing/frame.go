package dataprocessing

import (
	"strconv"
	"strings"
	"time"
)

// CellKind distinguishes the three states a cell can be in
type CellKind uint8

const (
	CellNull CellKind = iota
	CellText
	CellTime
)

// keyTimeLayout is fixed-width so that lexicographic order is chronological
const keyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Cell is a single value in a Frame. The zero value is null.
type Cell struct {
	kind CellKind
	text string
	at   time.Time
}

// NullCell returns the absent marker
func NullCell() Cell { return Cell{} }

// TextCell wraps raw text. Blank text becomes null.
func TextCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cell{}
	}
	return Cell{kind: CellText, text: s}
}

// TimeCell wraps a parsed timestamp
func TimeCell(t time.Time) Cell {
	return Cell{kind: CellTime, at: t}
}

// Kind reports the cell kind
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell is the absent marker
func (c Cell) IsNull() bool { return c.kind == CellNull }

// Time returns the timestamp held by a time cell
func (c Cell) Time() (time.Time, bool) {
	if c.kind != CellTime {
		return time.Time{}, false
	}
	return c.at, true
}

// Float parses the cell as a float. Only text cells can succeed.
func (c Cell) Float() (float64, bool) {
	if c.kind != CellText {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// String renders the cell for CSV samples and prompts. Null is empty,
// midnight timestamps print as a date.
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellTime:
		if c.at.Hour() == 0 && c.at.Minute() == 0 && c.at.Second() == 0 && c.at.Nanosecond() == 0 {
			return c.at.Format("2006-01-02")
		}
		return c.at.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// keyText is the canonical text used for join keys. ok is false for null.
func (c Cell) keyText() (string, bool) {
	switch c.kind {
	case CellText:
		return c.text, true
	case CellTime:
		return c.at.UTC().Format(keyTimeLayout), true
	default:
		return "", false
	}
}

// SourceSet records which input datasets contributed to a row
type SourceSet uint8

const (
	SourceAttendance SourceSet = 1 << iota
	SourceConnection
	SourcePayroll
	SourceEmployee
)

// Has reports whether every source in s is present
func (s SourceSet) Has(source SourceSet) bool { return s&source == source }

// String lists the contributing sources, e.g. "attendance+payroll"
func (s SourceSet) String() string {
	names := make([]string, 0, 4)
	for _, src := range []struct {
		bit  SourceSet
		name string
	}{
		{SourceAttendance, "attendance"},
		{SourceConnection, "connection"},
		{SourcePayroll, "payroll"},
		{SourceEmployee, "employee"},
	} {
		if s.Has(src.bit) {
			names = append(names, src.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// Row is one record of a Frame
type Row struct {
	Cells   []Cell
	Sources SourceSet
}

// Frame is a small in-memory table: ordered named columns over rows of cells
type Frame struct {
	Name    string
	columns []string
	index   map[string]int
	rows    []Row
}

// NewFrame creates an empty frame with the given columns
func NewFrame(name string, columns ...string) *Frame {
	f := &Frame{
		Name:    name,
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		f.addColumnName(col)
	}
	return f
}

func (f *Frame) addColumnName(col string) int {
	if i, ok := f.index[col]; ok {
		return i
	}
	f.index[col] = len(f.columns)
	f.columns = append(f.columns, col)
	return len(f.columns) - 1
}

// Columns returns a copy of the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the frame has the named column
func (f *Frame) HasColumn(col string) bool {
	_, ok := f.index[col]
	return ok
}

// ColumnIndex returns the position of col, or -1
func (f *Frame) ColumnIndex(col string) int {
	if i, ok := f.index[col]; ok {
		return i
	}
	return -1
}

// Len returns the number of rows
func (f *Frame) Len() int { return len(f.rows) }

// AppendRow adds a row. Short rows are padded with nulls, long rows truncated.
func (f *Frame) AppendRow(sources SourceSet, cells ...Cell) {
	row := make([]Cell, len(f.columns))
	copy(row, cells)
	f.rows = append(f.rows, Row{Cells: row, Sources: sources})
}

// Row returns the i-th row
func (f *Frame) Row(i int) Row { return f.rows[i] }

// Value returns the cell at row i in column col; missing columns read as null
func (f *Frame) Value(i int, col string) Cell {
	j, ok := f.index[col]
	if !ok {
		return Cell{}
	}
	return f.rows[i].Cells[j]
}

// Set replaces the cell at row i in column col. Unknown columns are ignored.
func (f *Frame) Set(i int, col string, c Cell) {
	if j, ok := f.index[col]; ok {
		f.rows[i].Cells[j] = c
	}
}

// AddColumn appends a column filled with nulls and returns its index
func (f *Frame) AddColumn(col string) int {
	if i, ok := f.index[col]; ok {
		return i
	}
	j := f.addColumnName(col)
	for i := range f.rows {
		f.rows[i].Cells = append(f.rows[i].Cells, Cell{})
	}
	return j
}

// RenameColumn renames old to new. It reports false if old is missing or new exists.
func (f *Frame) RenameColumn(old, new string) bool {
	j, ok := f.index[old]
	if !ok {
		return false
	}
	if _, exists := f.index[new]; exists {
		return false
	}
	delete(f.index, old)
	f.index[new] = j
	f.columns[j] = new
	return true
}

// Column returns every cell of col in row order
func (f *Frame) Column(col string) []Cell {
	j, ok := f.index[col]
	if !ok {
		return nil
	}
	out := make([]Cell, len(f.rows))
	for i, row := range f.rows {
		out[i] = row.Cells[j]
	}
	return out
}

// TagSources ORs s into every row's source set
func (f *Frame) TagSources(s SourceSet) {
	for i := range f.rows {
		f.rows[i].Sources |= s
	}
}

// Clone returns a deep copy. Cells are values, so copying the slices suffices.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Name, f.columns...)
	out.rows = make([]Row, len(f.rows))
	for i, row := range f.rows {
		cells := make([]Cell, len(row.Cells))
		copy(cells, row.Cells)
		out.rows[i] = Row{Cells: cells, Sources: row.Sources}
	}
	return out
}

// Head returns a frame with at most the first n rows
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	out := NewFrame(f.Name, f.columns...)
	out.rows = append(out.rows, f.rows[:n]...)
	return out
}
