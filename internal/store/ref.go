package store

import (
	"strconv"
	"strings"
)

// Ref names a task either by its stable id or by its position in the unfiltered list.
type Ref struct {
	ID    string
	Index int

	byIndex bool
}

func RefID(id string) Ref { return Ref{ID: strings.TrimSpace(id)} }

func RefIndex(i int) Ref { return Ref{Index: i, byIndex: true} }

// ParseRef treats a bare non-negative integer as a position and anything else as an id.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && !strings.HasPrefix(s, "+") {
		return RefIndex(n)
	}
	return RefID(s)
}

func (r Ref) IsIndex() bool { return r.byIndex }

func (r Ref) String() string {
	if r.byIndex {
		return strconv.Itoa(r.Index)
	}
	return r.ID
}
