// Package params holds the user-adjustable view parameters of a card list:
// search text, sort order, page and page size.
package params

import "github.com/heartmarshall/myenglish-cards/internal/domain"

// DefaultPageSize is used when a store is created without a usable page size.
const DefaultPageSize = 10

// Parameters is a snapshot of the view parameters. Page is always >= 1.
type Parameters struct {
	SearchText string
	Sort       *domain.SortSpec
	Page       int
	PageSize   int
}

// OrderingToken returns the serialised sort, "" when unsorted.
func (p Parameters) OrderingToken() string {
	return p.Sort.Token()
}

// Store is a plain state container. It performs no I/O and is not safe for
// concurrent use; each list controller owns its own Store.
type Store struct {
	p               Parameters
	defaultPageSize int
}

// New creates a Store on page 1 with no search and no sort.
func New(pageSize int) *Store {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Store{
		p:               Parameters{Page: 1, PageSize: pageSize},
		defaultPageSize: pageSize,
	}
}

// SetSearch replaces the search text and resets the page.
func (s *Store) SetSearch(text string) {
	s.p.SearchText = text
	s.p.Page = 1
}

// SetSort replaces the sort spec (nil clears it) and resets the page.
func (s *Store) SetSort(spec *domain.SortSpec) {
	s.p.Sort = spec.Clone()
	s.p.Page = 1
}

// SetPage moves to page n. Values below 1 clamp to 1; pages past the end are
// left for the server to answer with an empty page.
func (s *Store) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.p.Page = n
}

// SetPageSize changes the page size and resets the page. Non-positive sizes
// fall back to the store default.
func (s *Store) SetPageSize(n int) {
	if n < 1 {
		n = s.defaultPageSize
	}
	s.p.PageSize = n
	s.p.Page = 1
}

// Snapshot returns a copy of the current parameters.
func (s *Store) Snapshot() Parameters {
	p := s.p
	p.Sort = s.p.Sort.Clone()
	return p
}

// Page returns the current page.
func (s *Store) Page() int { return s.p.Page }
