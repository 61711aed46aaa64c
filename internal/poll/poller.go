package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/frimtec/hass-vzug/internal/api"
	"github.com/frimtec/hass-vzug/internal/logging"
)

// Intervals configures how often each aggregate is refreshed.
type Intervals struct {
	State  time.Duration
	Update time.Duration
	Config time.Duration
}

// DefaultIntervals returns the refresh cadence used by the watch mode:
// device state often, firmware and configuration rarely. The slow pair
// barely changes and each refresh costs the appliance dozens of requests.
func DefaultIntervals() Intervals {
	return Intervals{
		State:  30 * time.Second,
		Update: 6 * time.Hour,
		Config: 6 * time.Hour,
	}
}

// Snapshot is the latest known view of a device. Meta is fetched once at
// startup; the other aggregates refresh on their own tickers. Nil fields
// mean "never fetched successfully".
type Snapshot struct {
	Meta   api.AggMeta
	State  *api.AggState
	Update *api.AggUpdateStatus
	Config api.AggConfig
}

// Poller periodically rebuilds the aggregates of one device and caches
// the latest snapshot. It is safe for concurrent use.
type Poller struct {
	client    *api.Client
	intervals Intervals

	mu       sync.RWMutex
	snapshot Snapshot

	subsMu sync.Mutex
	subs   []chan Snapshot
}

// New creates a poller for the given device client.
func New(client *api.Client, intervals Intervals) *Poller {
	if intervals.State <= 0 {
		intervals = DefaultIntervals()
	}
	return &Poller{
		client:    client,
		intervals: intervals,
	}
}

// Run fetches the identity aggregate once, primes the remaining
// aggregates, then refreshes each on its own ticker until ctx is done.
// Identity failures abort the run: without MAC address and model there is
// no device to report on.
func (p *Poller) Run(ctx context.Context) error {
	meta, err := p.client.AggregateMeta(ctx, false)
	if err != nil {
		return fmt.Errorf("fetching device identity: %w", err)
	}
	p.mu.Lock()
	p.snapshot.Meta = meta
	p.mu.Unlock()

	p.refreshState(ctx)
	p.refreshUpdate(ctx)
	p.refreshConfig(ctx)

	var wg sync.WaitGroup
	wg.Add(3)
	go p.loop(ctx, &wg, p.intervals.State, p.refreshState)
	go p.loop(ctx, &wg, p.intervals.Update, p.refreshUpdate)
	go p.loop(ctx, &wg, p.intervals.Config, p.refreshConfig)
	wg.Wait()

	return ctx.Err()
}

// Latest returns the most recent snapshot.
func (p *Poller) Latest() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Subscribe returns a channel that receives a snapshot after every
// successful refresh. Slow consumers miss intermediate snapshots instead
// of blocking the poller.
func (p *Poller) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	p.subsMu.Lock()
	p.subs = append(p.subs, ch)
	p.subsMu.Unlock()
	return ch
}

func (p *Poller) loop(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, refresh func(context.Context)) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh(ctx)
		}
	}
}

func (p *Poller) refreshState(ctx context.Context) {
	state, err := p.client.AggregateState(ctx, true)
	logging.LogRefresh(p.client.BaseURL(), "state", err)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.snapshot.State = &state
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) refreshUpdate(ctx context.Context) {
	update, err := p.client.AggregateUpdateStatus(ctx, true)
	logging.LogRefresh(p.client.BaseURL(), "update", err)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.snapshot.Update = &update
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) refreshConfig(ctx context.Context) {
	tree, err := p.client.AggregateConfig(ctx)
	logging.LogRefresh(p.client.BaseURL(), "config", err)
	if err != nil {
		// Keep the previous tree; a partial one is not usable anyway.
		return
	}
	p.mu.Lock()
	p.snapshot.Config = tree
	p.mu.Unlock()
	p.notify()
}

func (p *Poller) notify() {
	snapshot := p.Latest()

	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
