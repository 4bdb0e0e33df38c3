package listview

import (
	"github.com/heartmarshall/myenglish-cards/internal/domain"
)

// SetSearch records new search input. The page resets to 1 at once; the
// query itself waits until the input has been quiet for the debounce delay.
func (c *Controller) SetSearch(text string) {
	_ = c.do(func() {
		c.params.SetSearch(text)
		c.search.Push(text)
		c.publish()
	})
}

// SetSort changes the ordering (nil clears it) and returns to page 1.
func (c *Controller) SetSort(spec *domain.SortSpec) {
	_ = c.do(func() {
		c.applyPendingSearch()
		c.params.SetSort(spec)
		c.refresh(false)
	})
}

// SetPage moves to page n (clamped to 1).
func (c *Controller) SetPage(n int) {
	_ = c.do(func() {
		c.applyPendingSearch()
		c.params.SetPage(n)
		c.refresh(false)
	})
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller) SetPageSize(n int) {
	_ = c.do(func() {
		c.applyPendingSearch()
		c.params.SetPageSize(n)
		c.refresh(false)
	})
}

// NextPage advances one page unless the last known page is already shown.
func (c *Controller) NextPage() {
	_ = c.do(func() {
		c.applyPendingSearch()
		next := c.params.Page() + 1
		if c.page != nil {
			if pages := c.page.Pagination.Pages(); next > pages {
				c.publish()
				return
			}
		}
		c.params.SetPage(next)
		c.refresh(false)
	})
}

// PrevPage goes back one page, stopping at page 1.
func (c *Controller) PrevPage() {
	_ = c.do(func() {
		c.applyPendingSearch()
		c.params.SetPage(c.params.Page() - 1)
		c.refresh(false)
	})
}

// Retry re-issues the current query, typically after a fetch error.
func (c *Controller) Retry() {
	_ = c.do(func() {
		c.applyPendingSearch()
		c.refresh(true)
	})
}

// SelectForEdit opens the edit dialog for card.
func (c *Controller) SelectForEdit(card domain.Card) {
	_ = c.do(func() {
		c.selection.SelectForEdit(card)
		c.publish()
	})
}

// SelectForDelete opens the delete confirmation for card.
func (c *Controller) SelectForDelete(card domain.Card) {
	_ = c.do(func() {
		c.selection.SelectForDelete(card)
		c.publish()
	})
}

// CloseEdit dismisses the edit dialog.
func (c *Controller) CloseEdit() {
	_ = c.do(func() {
		c.selection.CloseEdit()
		c.publish()
	})
}

// CloseDelete dismisses the delete confirmation.
func (c *Controller) CloseDelete() {
	_ = c.do(func() {
		c.selection.CloseDelete()
		c.publish()
	})
}

// DismissNotice clears the last mutation failure.
func (c *Controller) DismissNotice() {
	_ = c.do(func() {
		c.notice = nil
		c.publish()
	})
}

// Snapshot returns the current view model. A closed controller returns the
// zero ViewModel.
func (c *Controller) Snapshot() ViewModel {
	var vm ViewModel
	_ = c.do(func() { vm = c.viewModel() })
	return vm
}

// Subscribe returns a channel that receives the view model after every
// change, starting with the current one. Slow readers only see the newest
// model. The returned func unsubscribes; the channel is closed on Close.
func (c *Controller) Subscribe() (<-chan ViewModel, func()) {
	ch := make(chan ViewModel, 1)
	var id int
	err := c.do(func() {
		id = c.nextSub
		c.nextSub++
		c.subs[id] = ch
		ch <- c.viewModel()
	})
	if err != nil {
		close(ch)
		return ch, func() {}
	}
	return ch, func() {
		_ = c.do(func() {
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}
