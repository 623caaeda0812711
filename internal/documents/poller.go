package documents

import (
	"context"
	"time"

	"github.com/abhisek/sensei/internal/api"
)

// DefaultPollInterval is used when a Poller is created with a zero interval.
const DefaultPollInterval = 30 * time.Second

// FetchFunc loads the current documents of a skill.
type FetchFunc func(ctx context.Context) ([]api.Document, error)

// Poller re-fetches documents at a fixed interval while any of them is
// non-terminal. There is no backoff.
type Poller struct {
	Interval time.Duration
	Fetch    FetchFunc
}

// NewPoller creates a Poller.
func NewPoller(interval time.Duration, fetch FetchFunc) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{Interval: interval, Fetch: fetch}
}

// Watch fetches once, then keeps fetching every Interval until every
// document is terminal or ctx is done. onUpdate, when non-nil, sees each
// fetched list. The last list fetched is returned. A fetch error stops the
// watch.
func (p *Poller) Watch(ctx context.Context, onUpdate func([]api.Document)) ([]api.Document, error) {
	docs, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if onUpdate != nil {
		onUpdate(docs)
	}
	if !ShouldPoll(docs) {
		return docs, nil
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return docs, ctx.Err()
		case <-ticker.C:
		}

		next, err := p.Fetch(ctx)
		if err != nil {
			return docs, err
		}
		docs = next
		if onUpdate != nil {
			onUpdate(docs)
		}
		if !ShouldPoll(docs) {
			return docs, nil
		}
	}
}
