package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCSV(t *testing.T, name, text string) *Frame {
	t.Helper()
	f, err := LoadCSV(name, text)
	require.NoError(t, err)
	return f
}

func columnStrings(f *Frame, col string) []string {
	out := make([]string, f.Len())
	for i := range out {
		out[i] = f.Value(i, col).String()
	}
	return out
}

func TestHashJoin(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		spec      JoinSpec
		wantCols  []string
		wantRows  int
		checkFunc func(*testing.T, *Frame)
	}{
		{
			name:     "outer join fans out per key",
			left:     "k,a\n1,a1\n1,a2\n2,a3\n",
			right:    "k,b\n1,b1\n1,b2\n3,b3\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter},
			wantCols: []string{"k", "a", "b"},
			// 2x2 for key 1, left-only 2, right-only 3
			wantRows: 6,
			checkFunc: func(t *testing.T, f *Frame) {
				assert.Equal(t, []string{"1", "1", "1", "1", "2", "3"}, columnStrings(f, "k"))
				assert.Equal(t, []string{"a1", "a1", "a2", "a2", "a3", ""}, columnStrings(f, "a"))
				assert.Equal(t, []string{"b1", "b2", "b1", "b2", "", "b3"}, columnStrings(f, "b"))
			},
		},
		{
			name:     "outer join orders numeric keys by value",
			left:     "k,a\n10,l10\n9,l9\nx,lx\n",
			right:    "k,b\n2,r2\n9,r9\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter},
			wantCols: []string{"k", "a", "b"},
			wantRows: 4,
			checkFunc: func(t *testing.T, f *Frame) {
				assert.Equal(t, []string{"2", "9", "10", "x"}, columnStrings(f, "k"))
				assert.Equal(t, []string{"", "l9", "l10", "lx"}, columnStrings(f, "a"))
				assert.Equal(t, []string{"r2", "r9", "", ""}, columnStrings(f, "b"))
			},
		},
		{
			name:     "outer join orders keys and puts nulls last",
			left:     "k,a\nb,l1\n,l2\na,l3\n",
			right:    "k,b\n,r1\nc,r2\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter},
			wantCols: []string{"k", "a", "b"},
			wantRows: 5,
			checkFunc: func(t *testing.T, f *Frame) {
				assert.Equal(t, []string{"a", "b", "c", "", ""}, columnStrings(f, "k"))
				assert.Equal(t, []string{"l3", "l1", "", "l2", ""}, columnStrings(f, "a"))
				assert.Equal(t, []string{"", "", "r2", "", "r1"}, columnStrings(f, "b"))
			},
		},
		{
			name:     "null keys never match each other",
			left:     "k,a\n,l1\n",
			right:    "k,b\n,r1\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter},
			wantCols: []string{"k", "a", "b"},
			wantRows: 2,
		},
		{
			name:     "differently named keys are both kept",
			left:     "emp_id,attendance_date,x\nE1,2024-01-01,1\n",
			right:    "emp_id,connection_date,y\nE1,2024-01-01,2\nE2,2024-01-02,3\n",
			spec:     JoinSpec{LeftOn: []string{"emp_id", "attendance_date"}, RightOn: []string{"emp_id", "connection_date"}, Kind: JoinOuter},
			wantCols: []string{"emp_id", "attendance_date", "x", "connection_date", "y"},
			wantRows: 2,
			checkFunc: func(t *testing.T, f *Frame) {
				assert.Equal(t, []string{"E1", "E2"}, columnStrings(f, "emp_id"), "same-name key is coalesced")
				assert.Equal(t, []string{"2024-01-01", ""}, columnStrings(f, "attendance_date"))
				assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, columnStrings(f, "connection_date"))
			},
		},
		{
			name:     "overlapping columns get suffixes",
			left:     "k,location\n1,HQ\n",
			right:    "k,location\n1,Lobby\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter, Suffixes: [2]string{"_att", "_wifi"}},
			wantCols: []string{"k", "location_att", "location_wifi"},
			wantRows: 1,
		},
		{
			name:     "default suffixes",
			left:     "k,v\n1,a\n",
			right:    "k,v\n1,b\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinLeft},
			wantCols: []string{"k", "v_x", "v_y"},
			wantRows: 1,
		},
		{
			name:     "left join keeps left order and unmatched rows",
			left:     "k,a\n3,x\n1,y\n,z\n",
			right:    "k,b\n1,p\n1,q\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinLeft},
			wantCols: []string{"k", "a", "b"},
			wantRows: 4,
			checkFunc: func(t *testing.T, f *Frame) {
				assert.Equal(t, []string{"x", "y", "y", "z"}, columnStrings(f, "a"))
				assert.Equal(t, []string{"", "p", "q", ""}, columnStrings(f, "b"))
			},
		},
		{
			name:     "inner join drops unmatched",
			left:     "k,a\n1,x\n2,y\n",
			right:    "k,b\n2,p\n",
			spec:     JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinInner},
			wantCols: []string{"k", "a", "b"},
			wantRows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := HashJoin(mustCSV(t, "left", tt.left), mustCSV(t, "right", tt.right), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, out.Columns())
			assert.Equal(t, tt.wantRows, out.Len())
			if tt.checkFunc != nil {
				tt.checkFunc(t, out)
			}
		})
	}
}

func TestHashJoin_OuterNeverDropsRows(t *testing.T) {
	left := mustCSV(t, "left", "k,a\n1,x\n2,y\n,z\n")
	right := mustCSV(t, "right", "k,b\n2,p\n4,q\n,r\n")

	out, err := HashJoin(left, right, JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"x", "y", "z", "", ""}, columnStrings(out, "a"))
	assert.ElementsMatch(t, []string{"", "p", "", "q", "r"}, columnStrings(out, "b"))
}

func TestHashJoin_Sources(t *testing.T) {
	left := mustCSV(t, "left", "k\n1\n2\n")
	left.TagSources(SourceAttendance)
	right := mustCSV(t, "right", "k\n1\n3\n")
	right.TagSources(SourceConnection)

	out, err := HashJoin(left, right, JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}, Kind: JoinOuter})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	assert.Equal(t, SourceAttendance|SourceConnection, out.Row(0).Sources)
	assert.Equal(t, SourceAttendance, out.Row(1).Sources)
	assert.Equal(t, SourceConnection, out.Row(2).Sources)
}

func TestHashJoin_Errors(t *testing.T) {
	left := mustCSV(t, "left", "k,a\n1,x\n")
	right := mustCSV(t, "right", "k,b\n1,y\n")

	tests := []struct {
		name    string
		left    *Frame
		spec    JoinSpec
		wantErr string
	}{
		{
			name:    "unknown key",
			left:    left,
			spec:    JoinSpec{LeftOn: []string{"missing"}, RightOn: []string{"k"}},
			wantErr: `join key "missing" not found in left`,
		},
		{
			name:    "mismatched key lists",
			left:    left,
			spec:    JoinSpec{LeftOn: []string{"k", "a"}, RightOn: []string{"k"}},
			wantErr: "matching key lists",
		},
		{
			name:    "suffix collision",
			left:    mustCSV(t, "left", "k,b,b_x\n1,2,3\n"),
			spec:    JoinSpec{LeftOn: []string{"k"}, RightOn: []string{"k"}},
			wantErr: "duplicate column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashJoin(tt.left, right, tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
