package domain

import (
	"fmt"
	"strings"
)

// SortDirection is the ordering direction of a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) String() string { return string(d) }

func (d SortDirection) IsValid() bool {
	switch d {
	case SortAsc, SortDesc:
		return true
	}
	return false
}

// SortSpec selects a column and direction. A nil *SortSpec means unsorted.
type SortSpec struct {
	ColumnKey string
	Direction SortDirection
}

// Token serialises the spec into the ordering token understood by the
// server, "<columnKey>-<direction>". A nil spec yields "".
func (s *SortSpec) Token() string {
	if s == nil {
		return ""
	}
	return s.ColumnKey + "-" + string(s.Direction)
}

// Clone returns a copy of s, nil-safe.
func (s *SortSpec) Clone() *SortSpec {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Equal compares two specs; two nil specs are equal.
func (s *SortSpec) Equal(o *SortSpec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return *s == *o
}

// ParseSortToken is the inverse of Token. An empty token returns nil.
// The column key may itself contain dashes; the direction is the last segment.
func ParseSortToken(token string) (*SortSpec, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	i := strings.LastIndex(token, "-")
	if i <= 0 || i == len(token)-1 {
		return nil, NewValidationError("sort", fmt.Sprintf("invalid ordering token %q", token))
	}
	dir := SortDirection(strings.ToLower(token[i+1:]))
	if !dir.IsValid() {
		return nil, NewValidationError("sort", fmt.Sprintf("invalid direction %q", token[i+1:]))
	}
	return &SortSpec{ColumnKey: token[:i], Direction: dir}, nil
}
