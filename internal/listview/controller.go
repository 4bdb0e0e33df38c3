package listview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/debounce"
	"github.com/heartmarshall/myenglish-cards/internal/listview/params"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
	"github.com/heartmarshall/myenglish-cards/internal/listview/selection"
)

// ErrClosed is returned by commands issued before Start or after Close.
var ErrClosed = errors.New("listview: controller closed")

// ErrNoSelection is returned by EditSelected when no card is being edited.
var ErrNoSelection = errors.New("listview: no card selected for editing")

// Deps are the collaborators of a Controller.
type Deps struct {
	Client RemoteClient
	Clock  clockwork.Clock
	Log    *slog.Logger
}

// Options configure a Controller.
type Options struct {
	DeckID        string
	PageSize      int
	DebounceDelay time.Duration
}

// Controller drives the card list of one deck.
//
// All list state is owned by a single loop goroutine. Public methods hand
// closures to the loop and wait for them to run, so they are safe to call
// from any goroutine. Network calls run on their own goroutines and report
// back to the loop; only the result of the newest page fetch is applied.
type Controller struct {
	client RemoteClient
	clock  clockwork.Clock
	log    *slog.Logger
	deckID string

	events chan func()
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started   atomic.Bool
	closeOnce sync.Once

	// Loop-owned state below.
	params    *params.Store
	search    *debounce.Debouncer[string]
	selection *selection.Controller

	appliedSearch string
	current       query.Descriptor
	issued        bool
	seq           uint64

	state    State
	page     *domain.EntityPage
	fetchErr error
	notice   error
	deck     *domain.Deck
	me       *domain.User
	resolved bool

	subs    map[int]chan ViewModel
	nextSub int

	// fetchHandled, when set, runs on the loop after each page result.
	fetchHandled func(d query.Descriptor, applied bool)
}

// New creates a Controller. It does nothing until Start.
func New(deps Deps, opts Options) *Controller {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	c := &Controller{
		client:    deps.Client,
		clock:     clock,
		log:       log.With("component", "listview", slog.String("deck_id", opts.DeckID)),
		deckID:    opts.DeckID,
		events:    make(chan func()),
		done:      make(chan struct{}),
		params:    params.New(opts.PageSize),
		selection: selection.New(),
		subs:      make(map[int]chan ViewModel),
	}
	c.search = debounce.New[string](clock, opts.DebounceDelay, func(t debounce.Tick) {
		go c.post(func() { c.onSearchSettled(t) })
	})
	return c
}

// Start launches the loop, loads the deck and the current user and issues
// the first page fetch. ctx bounds the whole session; Close cancels it.
func (c *Controller) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.run()

	c.loadIdentity(true)
	_ = c.do(func() { c.refresh(false) })
}

// Close stops the loop, cancels in-flight requests and pending search input,
// and closes all subscription channels. It is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		// Never started: mark started so a late Start is a no-op.
		if c.started.CompareAndSwap(false, true) {
			close(c.done)
			return
		}
		c.cancel()
		<-c.done
		c.wg.Wait()
		for id, ch := range c.subs {
			close(ch)
			delete(c.subs, id)
		}
	})
}

func (c *Controller) run() {
	defer close(c.done)
	defer c.search.Stop()
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.ctx.Done():
			c.log.Debug("list closed")
			return
		}
	}
}

// post hands fn to the loop. It reports false once the loop is gone.
func (c *Controller) post(fn func()) bool {
	if !c.started.Load() {
		return false
	}
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

// do runs fn on the loop and waits for it. A panic inside fn is re-raised
// on the calling goroutine.
func (c *Controller) do(fn func()) error {
	var (
		ran       = make(chan struct{})
		recovered any
	)
	ok := c.post(func() {
		defer close(ran)
		defer func() { recovered = recover() }()
		fn()
	})
	if !ok {
		return ErrClosed
	}
	select {
	case <-ran:
	case <-c.done:
		return ErrClosed
	}
	if recovered != nil {
		panic(recovered)
	}
	return nil
}

// ----- Loop-side helpers -----

func (c *Controller) descriptor() query.Descriptor {
	p := c.params.Snapshot()
	p.SearchText = c.appliedSearch
	return query.Build(c.deckID, p)
}

// applyPendingSearch folds debounced input into the query so a parameter
// change made while typing always carries the newest search text.
func (c *Controller) applyPendingSearch() {
	if text, ok := c.search.Flush(); ok {
		c.appliedSearch = text
	}
}

// refresh fetches the page for the current parameters unless that exact
// query is already current. force re-fetches regardless.
func (c *Controller) refresh(force bool) {
	d := c.descriptor()
	if !force && c.issued && d == c.current {
		c.publish()
		return
	}
	c.issue(d, false)
}

func (c *Controller) issue(d query.Descriptor, correctEmpty bool) {
	if err := d.Validate(); err != nil {
		c.log.Error("invalid page query", slog.Any("error", err))
		c.fetchErr = err
		c.state = StateError
		c.publish()
		return
	}

	c.seq++
	seq := c.seq
	c.current = d
	c.issued = true
	c.state = StateLoading
	c.publish()

	c.log.Debug("fetching page",
		slog.Uint64("seq", seq),
		slog.Int("page", d.Page),
		slog.Int("page_size", d.PageSize),
		slog.String("order_by", d.OrderingToken),
		slog.String("search", d.SearchText),
	)

	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		page, err := c.client.FetchPage(ctx, d)
		c.post(func() { c.onPage(seq, d, page, err, correctEmpty) })
	}()
}

func (c *Controller) onPage(seq uint64, d query.Descriptor, page *domain.EntityPage, err error, correctEmpty bool) {
	if seq != c.seq {
		c.log.Debug("discarding stale page", slog.Uint64("seq", seq), slog.Uint64("current", c.seq))
		c.afterFetch(d, false)
		return
	}
	defer c.afterFetch(d, true)

	if err != nil {
		c.fetchErr = err
		c.state = StateError
		if domain.IsTransient(err) {
			c.log.Warn("page fetch failed", slog.Any("error", err))
		} else {
			c.log.Error("page fetch failed", slog.Any("error", err))
		}
		c.publish()
		return
	}
	if page == nil {
		page = &domain.EntityPage{}
	}

	c.page = page
	c.fetchErr = nil
	c.state = StateReady

	// A mutation emptied the page we are on: step back once.
	if correctEmpty && len(page.Items) == 0 && c.params.Page() > 1 {
		c.params.SetPage(c.params.Page() - 1)
		c.log.Info("page emptied by mutation, moving back", slog.Int("page", c.params.Page()))
		c.issue(c.descriptor(), false)
		return
	}
	c.publish()
}

func (c *Controller) afterFetch(d query.Descriptor, applied bool) {
	if c.fetchHandled != nil {
		c.fetchHandled(d, applied)
	}
}

func (c *Controller) onSearchSettled(t debounce.Tick) {
	text, ok := c.search.Settle(t)
	if !ok {
		return
	}
	c.appliedSearch = text
	c.refresh(false)
}

// loadIdentity fetches the deck and, when withUser is set, the current user.
// The two requests are independent; one failing does not discard the other.
func (c *Controller) loadIdentity(withUser bool) {
	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		var (
			deck *domain.Deck
			me   *domain.User
			g    errgroup.Group
		)
		g.Go(func() error {
			var err error
			deck, err = c.client.FetchDeck(ctx, c.deckID)
			if err != nil {
				c.log.Warn("failed to load deck", slog.Any("error", err))
			}
			return err
		})
		if withUser {
			g.Go(func() error {
				var err error
				me, err = c.client.FetchCurrentUser(ctx)
				if err != nil {
					c.log.Warn("failed to load current user", slog.Any("error", err))
				}
				return err
			})
		}
		_ = g.Wait()

		c.post(func() {
			if deck != nil {
				c.deck = deck
			}
			if me != nil {
				c.me = me
			}
			c.resolved = true
			c.publish()
		})
	}()
}

// publish pushes the current view model to every subscriber. Each channel
// holds at most one model; an unread one is replaced.
func (c *Controller) publish() {
	if len(c.subs) == 0 {
		return
	}
	vm := c.viewModel()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- vm
	}
}
