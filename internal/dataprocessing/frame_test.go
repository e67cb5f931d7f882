package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	midnight := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cell     Cell
		wantNull bool
		wantStr  string
	}{
		{name: "zero value is null", cell: Cell{}, wantNull: true, wantStr: ""},
		{name: "blank text is null", cell: TextCell("   "), wantNull: true, wantStr: ""},
		{name: "text is trimmed", cell: TextCell(" E001 "), wantStr: "E001"},
		{name: "midnight renders as date", cell: TimeCell(midnight), wantStr: "2024-01-15"},
		{name: "time of day renders with clock", cell: TimeCell(morning), wantStr: "2024-01-15 09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNull, tt.cell.IsNull())
			assert.Equal(t, tt.wantStr, tt.cell.String())
		})
	}

	t.Run("float parsing", func(t *testing.T) {
		v, ok := TextCell("4000.50").Float()
		require.True(t, ok)
		assert.InDelta(t, 4000.5, v, 1e-9)

		_, ok = TextCell("n/a").Float()
		assert.False(t, ok)
		_, ok = TimeCell(morning).Float()
		assert.False(t, ok)
	})

	t.Run("time keys sort chronologically", func(t *testing.T) {
		a, _ := TimeCell(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)).keyText()
		b, _ := TimeCell(midnight).keyText()
		assert.Less(t, a, b)
	})
}

func TestSourceSet(t *testing.T) {
	s := SourceAttendance | SourcePayroll
	assert.True(t, s.Has(SourceAttendance))
	assert.False(t, s.Has(SourceConnection))
	assert.Equal(t, "attendance+payroll", s.String())
	assert.Equal(t, "none", SourceSet(0).String())
}

func TestFrame(t *testing.T) {
	f := NewFrame("people", "emp_id", "name")
	f.AppendRow(0, TextCell("E001"), TextCell("Alice"))
	f.AppendRow(0, TextCell("E002"))

	assert.Equal(t, 2, f.Len())
	assert.True(t, f.Value(1, "name").IsNull(), "short rows are padded with nulls")
	assert.True(t, f.Value(0, "missing").IsNull())

	t.Run("clone is independent", func(t *testing.T) {
		c := f.Clone()
		c.Set(0, "name", TextCell("Changed"))
		assert.Equal(t, "Alice", f.Value(0, "name").String())
	})

	t.Run("rename and add column", func(t *testing.T) {
		c := f.Clone()
		assert.False(t, c.RenameColumn("emp_id", "name"))
		assert.True(t, c.RenameColumn("name", "employee_name"))
		c.AddColumn("dept")
		assert.Equal(t, []string{"emp_id", "employee_name", "dept"}, c.Columns())
		assert.True(t, c.Value(0, "dept").IsNull())
	})

	t.Run("head bounds", func(t *testing.T) {
		assert.Equal(t, 1, f.Head(1).Len())
		assert.Equal(t, 2, f.Head(10).Len())
		assert.Equal(t, 0, f.Head(-1).Len())
	})

	t.Run("tag sources", func(t *testing.T) {
		c := f.Clone()
		c.TagSources(SourceEmployee)
		assert.True(t, c.Row(1).Sources.Has(SourceEmployee))
		assert.False(t, f.Row(1).Sources.Has(SourceEmployee))
	})
}
