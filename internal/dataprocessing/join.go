package dataprocessing

import (
	"cmp"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JoinKind selects which unmatched rows survive a join
type JoinKind int

const (
	// JoinOuter keeps unmatched rows from both sides
	JoinOuter JoinKind = iota
	// JoinLeft keeps every left row in input order
	JoinLeft
	// JoinInner keeps matched pairs only
	JoinInner
)

func (k JoinKind) String() string {
	switch k {
	case JoinOuter:
		return "outer"
	case JoinLeft:
		return "left"
	case JoinInner:
		return "inner"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// JoinSpec describes a multi-key equi-join
type JoinSpec struct {
	LeftOn   []string
	RightOn  []string
	Kind     JoinKind
	Suffixes [2]string
}

const keySeparator = "\x1f"

// joinKey is the composite key of one row. Null components never match.
type joinKey struct {
	parts []string
	text  string
	null  bool
}

func rowKey(f *Frame, row int, cols []int) joinKey {
	parts := make([]string, len(cols))
	for i, c := range cols {
		text, ok := f.rows[row].Cells[c].keyText()
		if !ok {
			return joinKey{null: true}
		}
		parts[i] = text
	}
	return joinKey{parts: parts, text: strings.Join(parts, keySeparator)}
}

// keyIndex groups row positions by key, remembering first-seen key order
type keyIndex struct {
	groups map[string][]int
	keys   []joinKey
	nulls  []int
}

func buildKeyIndex(f *Frame, cols []int) *keyIndex {
	idx := &keyIndex{groups: make(map[string][]int)}
	for i := range f.rows {
		k := rowKey(f, i, cols)
		if k.null {
			idx.nulls = append(idx.nulls, i)
			continue
		}
		if _, seen := idx.groups[k.text]; !seen {
			idx.keys = append(idx.keys, k)
		}
		idx.groups[k.text] = append(idx.groups[k.text], i)
	}
	return idx
}

func lessTuple(a, b []string) bool {
	for i := range a {
		if c := comparePart(a[i], b[i]); c != 0 {
			return c < 0
		}
	}
	return false
}

// comparePart orders numeric parts by value and before text parts
func comparePart(a, b string) int {
	if a == b {
		return 0
	}
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if x != y {
			return cmp.Compare(x, y)
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// joinLayout maps input columns to output positions
type joinLayout struct {
	columns  []string
	leftPos  []int
	rightPos []int // -1 for right keys coalesced into the left column
	// coalesce[i] is the output position fed by right column i when the left row is absent
	coalesce map[int]int
}

func planJoin(left, right *Frame, spec JoinSpec, leftKeys, rightKeys []int) (*joinLayout, error) {
	suffixes := spec.Suffixes
	if suffixes[0] == "" && suffixes[1] == "" {
		suffixes = [2]string{"_x", "_y"}
	}

	coalescedRight := make(map[int]int) // right col -> left col
	coalescedLeft := make(map[int]bool)
	for k := range leftKeys {
		if spec.LeftOn[k] == spec.RightOn[k] {
			coalescedRight[rightKeys[k]] = leftKeys[k]
			coalescedLeft[leftKeys[k]] = true
		}
	}

	rightNames := make(map[string]bool)
	for j, col := range right.columns {
		if _, ok := coalescedRight[j]; !ok {
			rightNames[col] = true
		}
	}
	leftNames := make(map[string]bool)
	for _, col := range left.columns {
		leftNames[col] = true
	}

	layout := &joinLayout{
		leftPos:  make([]int, len(left.columns)),
		rightPos: make([]int, len(right.columns)),
		coalesce: make(map[int]int),
	}
	seen := make(map[string]bool)
	add := func(name string) (int, error) {
		if seen[name] {
			return 0, fmt.Errorf("join of %s and %s produces duplicate column %q", left.Name, right.Name, name)
		}
		seen[name] = true
		layout.columns = append(layout.columns, name)
		return len(layout.columns) - 1, nil
	}

	for i, col := range left.columns {
		name := col
		if !coalescedLeft[i] && rightNames[col] {
			name = col + suffixes[0]
		}
		pos, err := add(name)
		if err != nil {
			return nil, err
		}
		layout.leftPos[i] = pos
	}
	for j, col := range right.columns {
		if leftCol, ok := coalescedRight[j]; ok {
			layout.rightPos[j] = -1
			layout.coalesce[j] = layout.leftPos[leftCol]
			continue
		}
		name := col
		if leftNames[col] {
			name = col + suffixes[1]
		}
		pos, err := add(name)
		if err != nil {
			return nil, err
		}
		layout.rightPos[j] = pos
	}
	return layout, nil
}

func resolveColumns(f *Frame, cols []string) ([]int, error) {
	out := make([]int, len(cols))
	for i, col := range cols {
		j, ok := f.index[col]
		if !ok {
			return nil, fmt.Errorf("join key %q not found in %s", col, f.Name)
		}
		out[i] = j
	}
	return out, nil
}

// HashJoin joins left and right on the key columns of spec. Outer joins
// emit key groups in ascending tuple order followed by null-key rows;
// left joins keep left input order. Within a key group rows fan out in
// input order.
func HashJoin(left, right *Frame, spec JoinSpec) (*Frame, error) {
	if len(spec.LeftOn) == 0 || len(spec.LeftOn) != len(spec.RightOn) {
		return nil, fmt.Errorf("join needs matching key lists, got %d left and %d right", len(spec.LeftOn), len(spec.RightOn))
	}
	leftKeys, err := resolveColumns(left, spec.LeftOn)
	if err != nil {
		return nil, err
	}
	rightKeys, err := resolveColumns(right, spec.RightOn)
	if err != nil {
		return nil, err
	}
	layout, err := planJoin(left, right, spec, leftKeys, rightKeys)
	if err != nil {
		return nil, err
	}

	out := NewFrame(left.Name, layout.columns...)
	emit := func(li, ri int) {
		cells := make([]Cell, len(layout.columns))
		var sources SourceSet
		if li >= 0 {
			row := left.rows[li]
			for i, c := range row.Cells {
				cells[layout.leftPos[i]] = c
			}
			sources |= row.Sources
		}
		if ri >= 0 {
			row := right.rows[ri]
			for j, c := range row.Cells {
				if pos := layout.rightPos[j]; pos >= 0 {
					cells[pos] = c
				} else if li < 0 {
					cells[layout.coalesce[j]] = c
				}
			}
			sources |= row.Sources
		}
		out.rows = append(out.rows, Row{Cells: cells, Sources: sources})
	}

	rightIdx := buildKeyIndex(right, rightKeys)

	switch spec.Kind {
	case JoinLeft, JoinInner:
		for li := range left.rows {
			k := rowKey(left, li, leftKeys)
			matches := rightIdx.groups[k.text]
			if k.null || len(matches) == 0 {
				if spec.Kind == JoinLeft {
					emit(li, -1)
				}
				continue
			}
			for _, ri := range matches {
				emit(li, ri)
			}
		}

	case JoinOuter:
		leftIdx := buildKeyIndex(left, leftKeys)
		keys := make([]joinKey, 0, len(leftIdx.keys)+len(rightIdx.keys))
		keys = append(keys, leftIdx.keys...)
		for _, k := range rightIdx.keys {
			if _, dup := leftIdx.groups[k.text]; !dup {
				keys = append(keys, k)
			}
		}
		sort.SliceStable(keys, func(a, b int) bool { return lessTuple(keys[a].parts, keys[b].parts) })

		for _, k := range keys {
			lrows, rrows := leftIdx.groups[k.text], rightIdx.groups[k.text]
			switch {
			case len(rrows) == 0:
				for _, li := range lrows {
					emit(li, -1)
				}
			case len(lrows) == 0:
				for _, ri := range rrows {
					emit(-1, ri)
				}
			default:
				for _, li := range lrows {
					for _, ri := range rrows {
						emit(li, ri)
					}
				}
			}
		}
		for _, li := range leftIdx.nulls {
			emit(li, -1)
		}
		for _, ri := range rightIdx.nulls {
			emit(-1, ri)
		}

	default:
		return nil, fmt.Errorf("unsupported join kind %s", spec.Kind)
	}

	return out, nil
}
