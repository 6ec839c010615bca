// internal/historian/historian.go pops action records from the Redis queue and
// persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// popTimeout bounds each BLPop so shutdown is noticed promptly.
const popTimeout = 3 * time.Second

// Popper is the slice of the Redis client the historian reads with.
type Popper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Sink is where batches end up.
type Sink interface {
	InsertActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// PostgresSink writes through the shared database pool.
type PostgresSink struct{}

func (PostgresSink) InsertActions(ctx context.Context, records []cache.GameActionRecord) error {
	return database.InsertActions(ctx, records)
}

func (PostgresSink) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	return database.MarkGameAbandoned(ctx, gameID)
}

// Options tune batching and abandonment.
type Options struct {
	Queue      string
	BatchSize  int
	FlushDelay time.Duration

	// Inactivity is how long a game may stay silent before it is marked abandoned.
	Inactivity time.Duration
	CheckEvery time.Duration
}

// Service accumulates records and flushes them when the batch is full or the
// flush delay passes, whichever comes first.
type Service struct {
	rdb  Popper
	sink Sink
	opts Options
	log  *logrus.Entry

	batchMu sync.Mutex
	batch   []cache.GameActionRecord

	activityMu   sync.Mutex
	lastActivity map[uuid.UUID]time.Time
}

func New(rdb Popper, sink Sink, opts Options, log *logrus.Entry) *Service {
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = time.Minute
	}
	return &Service{
		rdb:          rdb,
		sink:         sink,
		opts:         opts,
		log:          log,
		batch:        make([]cache.GameActionRecord, 0, opts.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run blocks until ctx is done, then writes out whatever is still batched.
func (s *Service) Run(ctx context.Context) error {
	s.log.WithField("queue", s.opts.Queue).Info("historian started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(gctx) })
	g.Go(func() error { return s.flushLoop(gctx) })
	g.Go(func() error { return s.inactivityLoop(gctx) })
	err := g.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(flushCtx)

	s.log.Info("historian stopped")
	return err
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := s.rdb.BLPop(ctx, popTimeout, s.opts.Queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			s.log.WithError(err).Error("BLPop failed")
			// back off while Redis is unreachable
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		// res[0] is the queue name and res[1] the payload.
		if len(res) < 2 {
			continue
		}
		s.handle(ctx, res[1])
	}
}

// handle decodes one payload and adds it to the batch.
func (s *Service) handle(ctx context.Context, payload string) {
	var record cache.GameActionRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		s.log.WithError(err).Warn("invalid action record")
		return
	}

	s.touch(record.GameID, time.Now())
	if s.appendToBatch(record) {
		s.flush(ctx)
	}
}

// appendToBatch reports whether the batch is now full.
func (s *Service) appendToBatch(record cache.GameActionRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, record)
	return len(s.batch) >= s.opts.BatchSize
}

func (s *Service) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

// flush writes the current batch in one transaction. A failed batch is put
// back in front of newer records and retried on the next flush.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]cache.GameActionRecord, 0, s.opts.BatchSize)
	s.batchMu.Unlock()

	if err := s.sink.InsertActions(ctx, pending); err != nil {
		s.log.WithError(err).WithField("count", len(pending)).Error("failed to flush actions")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.WithField("count", len(pending)).Debug("flushed actions")
}

func (s *Service) touch(gameID uuid.UUID, at time.Time) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	s.lastActivity[gameID] = at
}

func (s *Service) inactivityLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.CheckEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.markAbandoned(ctx, now)
		}
	}
}

// markAbandoned flags every game silent for longer than the inactivity limit
// and stops tracking it.
func (s *Service) markAbandoned(ctx context.Context, now time.Time) {
	s.activityMu.Lock()
	var stale []uuid.UUID
	for id, last := range s.lastActivity {
		if now.Sub(last) > s.opts.Inactivity {
			stale = append(stale, id)
			delete(s.lastActivity, id)
		}
	}
	s.activityMu.Unlock()

	if len(stale) == 0 {
		return
	}
	// pending actions of a stale game must land before it is closed off
	s.flush(ctx)

	for _, id := range stale {
		changed, err := s.sink.MarkGameAbandoned(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("game", id).Error("failed to mark game abandoned")
			continue
		}
		if changed {
			s.log.WithField("game", id).Info("marked game abandoned due to inactivity")
		}
	}
}
