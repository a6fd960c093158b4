package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/idx"
)

// OrphanPrefix selects the blobs the sweep considers.
const OrphanPrefix = defaultFileField + "-"

// DefaultOrphanGracePeriod keeps in-flight submissions out of the sweep.
const DefaultOrphanGracePeriod = 24 * time.Hour

// HousekeepingService periodically removes expired admin sessions and CV
// blobs that no nomination references (left behind when a record insert
// fails after the upload succeeded).
type HousekeepingService struct {
	Store       store.Store
	Blobs       blob.Store
	Logger      *slog.Logger
	Interval    time.Duration
	OrphanGrace time.Duration

	now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// SweepResult summarises one housekeeping pass.
type SweepResult struct {
	ExpiredSessions int64
	OrphansDeleted  int
	OrphansKept     int
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, blobs blob.Store, logger *slog.Logger, interval, orphanGrace time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if orphanGrace <= 0 {
		orphanGrace = DefaultOrphanGracePeriod
	}

	return &HousekeepingService{
		Store:       st,
		Blobs:       blobs,
		Logger:      logger,
		Interval:    interval,
		OrphanGrace: orphanGrace,
		now:         time.Now,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress pass has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run cleanup immediately on startup
	s.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single pass. Each step is independent; a failure in
// one is logged and does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) SweepResult {
	var res SweepResult

	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else {
		res.ExpiredSessions = n
	}

	deleted, kept, err := s.sweepOrphans(ctx)
	if err != nil {
		s.Logger.Error("failed to sweep orphaned blobs", "error", err)
	}
	res.OrphansDeleted, res.OrphansKept = deleted, kept

	s.Logger.Info("housekeeping pass completed",
		"expired_sessions", res.ExpiredSessions,
		"orphans_deleted", res.OrphansDeleted,
	)
	return res
}

func (s *HousekeepingService) sweepOrphans(ctx context.Context) (deleted, kept int, err error) {
	objects, err := s.Blobs.List(ctx, OrphanPrefix)
	if err != nil {
		return 0, 0, err
	}

	cutoff := s.now().Add(-s.OrphanGrace)
	for _, obj := range objects {
		if ctx.Err() != nil {
			return deleted, kept, ctx.Err()
		}
		if !blobCreatedAt(obj).Before(cutoff) {
			continue
		}

		referenced, err := s.Store.Nominations().CVReferenceExists(ctx, obj.Ref)
		if err != nil {
			return deleted, kept, err
		}
		if referenced {
			kept++
			continue
		}

		if err := s.Blobs.Delete(ctx, obj.Ref); err != nil && !errors.Is(err, blob.ErrNotFound) {
			s.Logger.Warn("failed to delete orphaned blob", "ref", obj.Ref, "error", err)
			continue
		}
		s.Logger.Info("deleted orphaned blob", "ref", obj.Ref, "size", obj.Size)
		deleted++
	}
	return deleted, kept, nil
}

// blobCreatedAt prefers the time embedded in the blob name's ULID and falls
// back to the store's modification time.
func blobCreatedAt(obj blob.Object) time.Time {
	if id, ok := idx.FromObjectKey(obj.Ref, defaultFileField); ok {
		return id.Time()
	}
	return obj.ModTime
}
