package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview"
)

// query flags shared by commands that look at one page of a deck.
type queryFlags struct {
	search   string
	sort     string
	page     int
	pageSize int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "Search text")
	cmd.Flags().StringVar(&q.sort, "sort", "", "Sort as COLUMN-DIRECTION, e.g. question-asc")
	cmd.Flags().IntVarP(&q.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&q.pageSize, "page-size", 0, "Cards per page (default from config)")
}

// open starts a controller for deckID, applies q and waits for the result.
// The caller closes the controller.
func (c *cli) open(ctx context.Context, deckID string, q queryFlags) (*listview.Controller, listview.ViewModel, error) {
	spec, err := parseSort(q.sort)
	if err != nil {
		return nil, listview.ViewModel{}, err
	}
	if q.pageSize != 0 {
		if err := c.checkPageSize(q.pageSize); err != nil {
			return nil, listview.ViewModel{}, err
		}
	}

	ctrl := c.app.NewController(deckID)
	ctrl.Start(c.app.Context(ctx))

	if q.search != "" {
		ctrl.SetSearch(q.search)
	}
	// Applies the search at once instead of waiting for the debounce delay.
	ctrl.SetSort(spec)
	if q.pageSize != 0 {
		ctrl.SetPageSize(q.pageSize)
	}
	if q.page > 1 {
		ctrl.SetPage(q.page)
	}

	vm, err := settle(ctx, ctrl)
	if err != nil {
		ctrl.Close()
		return nil, listview.ViewModel{}, err
	}
	return ctrl, vm, nil
}

// settle waits until the list answers its latest query and the deck and
// viewer are known.
func settle(ctx context.Context, ctrl *listview.Controller) (listview.ViewModel, error) {
	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	for {
		select {
		case vm, ok := <-updates:
			if !ok {
				return listview.ViewModel{}, listview.ErrClosed
			}
			if !vm.Resolved || vm.SearchPending {
				continue
			}
			if vm.State == listview.StateReady || vm.State == listview.StateError {
				return vm, nil
			}
		case <-ctx.Done():
			return listview.ViewModel{}, ctx.Err()
		}
	}
}

func (c *cli) checkPageSize(n int) error {
	if n <= 0 {
		return domain.NewValidationError("page_size", "must be positive")
	}
	if sizes := c.cfg.List.PageSizes; len(sizes) > 0 && !slices.Contains(sizes, n) {
		return domain.NewValidationError("page_size", fmt.Sprintf("must be one of %v", sizes))
	}
	return nil
}

// parseSort accepts "", "none", "question-asc" or "question asc".
func parseSort(s string) (*domain.SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	s = strings.Join(strings.Fields(s), "-")
	spec, err := domain.ParseSortToken(s)
	if err != nil {
		return nil, err
	}
	if !listview.SortableColumn(spec.ColumnKey) {
		return nil, domain.NewValidationError("sort", fmt.Sprintf("column %q is not sortable", spec.ColumnKey))
	}
	return spec, nil
}

func parseGrade(s string) (domain.Grade, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.NewValidationError("grade", fmt.Sprintf("invalid grade %q", s))
	}
	return domain.Grade(n), nil
}

// findRow returns the row of the card with id on the current page.
func findRow(vm listview.ViewModel, id string) (listview.Row, bool) {
	for _, row := range vm.Rows {
		if row.Card.ID == id {
			return row, true
		}
	}
	return listview.Row{}, false
}

// allowed reports whether the viewer may take action on row.
func allowed(row listview.Row, action listview.RowAction) error {
	if slices.Contains(row.Actions, action) {
		return nil
	}
	return fmt.Errorf("%s card %s: only the deck owner can do this: %w", action, row.Card.ID, domain.ErrForbidden)
}
