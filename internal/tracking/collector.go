package tracking

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"routesync/internal/logger"
)

// Forwarder is the slice of the sync engine the collector writes through.
type Forwarder interface {
	UpdateLastLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error
	AddTripLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error
}

// Collector is the long-running actor between the location provider and the
// sync engine. A single goroutine consumes fixes in arrival order, runs the
// distance filter, and forwards accepted samples under the current trip
// context. Forwarding failures are logged and swallowed: an accepted sample
// that fails to persist still advances the filter, keeping the sampling
// geometry stable regardless of delivery success.
type Collector struct {
	repo   Forwarder
	filter *Filter

	fixes chan *Fix

	mu        sync.Mutex
	fleetCode string
	tripID    string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

func NewCollector(repo Forwarder, filter *Filter, bufferSize int) *Collector {
	ctx, cancel := context.WithCancel(context.Background())

	return &Collector{
		repo:   repo,
		filter: filter,
		fixes:  make(chan *Fix, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the consumer goroutine.
func (c *Collector) Start() {
	c.startOnce.Do(func() {
		c.wg.Add(1)
		go c.run()
		logger.Info("Location collector started")
	})
}

// Stop prevents further fixes from reaching the pipeline and waits for the
// consumer to exit. A forward already in flight completes; it is not aborted.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
		logger.Info("Location collector stopped")
	})
}

// Begin attaches the active trip context and resets the filter so the trip's
// first fix is accepted unconditionally.
func (c *Collector) Begin(fleetCode, tripID string) {
	c.mu.Lock()
	c.fleetCode = fleetCode
	c.tripID = tripID
	c.mu.Unlock()

	c.filter.Reset()

	logger.Info("Tracking began",
		zap.String("fleet_code", fleetCode),
		zap.String("trip_id", tripID),
	)
}

// End detaches the trip context; subsequent fixes are dropped.
func (c *Collector) End() {
	c.mu.Lock()
	c.fleetCode = ""
	c.tripID = ""
	c.mu.Unlock()

	logger.Info("Tracking ended")
}

// Offer enqueues a fix without blocking the provider callback. When the
// buffer is full the fix is dropped.
func (c *Collector) Offer(fix *Fix) {
	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.fixes <- fix:
	default:
		logger.Warn("Fix buffer full, dropping fix",
			zap.Float64("lat", fix.Lat),
			zap.Float64("lng", fix.Lng),
		)
	}
}

func (c *Collector) run() {
	defer c.wg.Done()

	for {
		select {
		case fix := <-c.fixes:
			c.process(fix)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Collector) process(fix *Fix) {
	if !c.filter.Accept(fix) {
		return
	}

	c.mu.Lock()
	fleetCode, tripID := c.fleetCode, c.tripID
	c.mu.Unlock()

	// Accepted but no active trip: the pipeline never buffers against "no trip".
	if fleetCode == "" || tripID == "" {
		return
	}

	// Background context on purpose: a dispatched write is allowed to finish
	// even if Stop is called while it runs.
	ctx := context.Background()

	if err := c.repo.UpdateLastLocation(ctx, fleetCode, tripID, fix.Lat, fix.Lng, fix.Timestamp); err != nil {
		logger.Error("Failed to update last location",
			zap.String("trip_id", tripID),
			zap.Error(err),
		)
	}

	if err := c.repo.AddTripLocation(ctx, fleetCode, tripID, fix.Lat, fix.Lng, fix.Timestamp); err != nil {
		logger.Error("Failed to persist trip location",
			zap.String("trip_id", tripID),
			zap.Error(err),
		)
	}
}
