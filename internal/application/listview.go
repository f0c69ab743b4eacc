package application

import (
	"context"
	"sync"
	"time"

	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ListState is the lifecycle of a listing.
type ListState int

const (
	StateIdle ListState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s ListState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

func (s ListState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	fetchErrorTitle    = "Error fetching data"
	fetchErrorFallback = "Could not load data from the server"
	defaultListTimeout = 20 * time.Second
)

// Fetcher loads one complete set of rows.
type Fetcher func(ctx context.Context) ([]Row, error)

// ListSnapshot is a consistent copy of a controller's state. Rows keep the
// last successful result, also while loading or after an error.
type ListSnapshot struct {
	Name      string    `json:"name"`
	State     ListState `json:"state"`
	Rows      []Row     `json:"rows"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Cycle     uint64    `json:"cycle"`
}

type ListOptions struct {
	// Timeout bounds one fetch cycle.
	Timeout  time.Duration
	Notifier notify.Notifier
}

// ListController owns the fetch lifecycle of one listing. At most one
// fetch cycle runs at a time. A Refresh is only answered by a cycle that
// started after the call: calls made while a cycle is in flight wait for
// it and then share one trailing cycle.
type ListController struct {
	name     string
	fetch    Fetcher
	timeout  time.Duration
	notifier notify.Notifier
	group    singleflight.Group
	log      zerolog.Logger

	mu       sync.RWMutex
	state    ListState
	rows     []Row
	errMsg   string
	errKind  string
	loadedAt time.Time
	cycle    uint64

	// requested counts Refresh calls; covered is the highest request a
	// finished cycle started after.
	requested uint64
	covered   uint64
	lastErr   error
}

func NewListController(name string, fetch Fetcher, opts ListOptions) *ListController {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultListTimeout
	}
	return &ListController{
		name:     name,
		fetch:    fetch,
		timeout:  timeout,
		notifier: opts.Notifier,
		log:      logger.With("list").With().Str("list", name).Logger(),
	}
}

func (c *ListController) Name() string {
	return c.name
}

func (c *ListController) Snapshot() ListSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rows := make([]Row, len(c.rows))
	copy(rows, c.rows)
	return ListSnapshot{
		Name:      c.name,
		State:     c.state,
		Rows:      rows,
		Error:     c.errMsg,
		ErrorKind: c.errKind,
		LoadedAt:  c.loadedAt,
		Cycle:     c.cycle,
	}
}

// Find returns the cached row of an application.
func (c *ListController) Find(applicationID uint) (Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rows {
		if r.ID == applicationID {
			return r, true
		}
	}
	return Row{}, false
}

// Refresh waits for a fetch cycle that started after the call, running it
// or joining one when needed. The cycle itself is detached from ctx: a
// caller giving up does not abort a fetch other callers may be waiting on.
func (c *ListController) Refresh(ctx context.Context) (ListSnapshot, error) {
	c.mu.Lock()
	c.requested++
	want := c.requested
	c.mu.Unlock()

	joined := false
	for {
		if snap, ok, err := c.outcome(want); ok {
			if joined {
				metrics.RecordListRefresh(c.name, "coalesced")
			}
			return snap, err
		}

		leader := false
		ch := c.group.DoChan("refresh", func() (any, error) {
			leader = true
			return nil, c.runCycle(context.WithoutCancel(ctx))
		})

		select {
		case <-ch:
			if !leader {
				joined = true
			}
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// outcome reports the latest result once a cycle covering request want has
// finished.
func (c *ListController) outcome(want uint64) (ListSnapshot, bool, error) {
	c.mu.RLock()
	done := c.covered >= want
	err := c.lastErr
	c.mu.RUnlock()
	if !done {
		return ListSnapshot{}, false, nil
	}
	return c.Snapshot(), true, err
}

func (c *ListController) runCycle(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	c.mu.Lock()
	c.state = StateLoading
	c.cycle++
	cycle := c.cycle
	covers := c.requested
	c.mu.Unlock()

	start := time.Now()
	rows, err := c.fetch(ctx)
	err = mapDeadline("refresh_"+c.name, err)

	c.mu.Lock()
	if err != nil {
		c.state = StateError
		c.errMsg = backend.MessageOf(err, fetchErrorFallback)
		c.errKind = backend.KindOf(err)
	} else {
		c.state = StateSuccess
		c.rows = rows
		c.errMsg = ""
		c.errKind = ""
		c.loadedAt = time.Now()
	}
	if covers > c.covered {
		c.covered = covers
	}
	c.lastErr = err
	msg := c.errMsg
	c.mu.Unlock()

	if err != nil {
		metrics.RecordListRefresh(c.name, "error")
		c.log.Warn().Err(err).Uint64("cycle", cycle).Msg("Fetch cycle failed")
		if c.notifier != nil {
			c.notifier.Notify(notify.LevelError, fetchErrorTitle, msg)
		}
		return err
	}
	metrics.RecordListRefresh(c.name, "success")
	c.log.Debug().Uint64("cycle", cycle).Int("rows", len(rows)).Dur("took", time.Since(start)).Msg("Fetch cycle done")
	return nil
}
