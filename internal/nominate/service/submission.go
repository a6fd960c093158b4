package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/idx"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

var (
	ErrStorageFailure     = errors.New("failed to store file")
	ErrPersistenceFailure = errors.New("failed to save nomination")
)

// SubmissionService stores the CV first, then the record. A record failure
// after a successful upload leaves the blob behind for the orphan sweep.
type SubmissionService struct {
	Store  store.Store
	Blobs  blob.Store
	Intake *IntakeValidator

	now         func() time.Time
	submissions *prometheus.CounterVec
}

func NewSubmissionService(st store.Store, blobs blob.Store, intake *IntakeValidator, reg prometheus.Registerer) *SubmissionService {
	return &SubmissionService{
		Store:  st,
		Blobs:  blobs,
		Intake: intake,
		now:    time.Now,
		submissions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "nominate",
			Name:      "submissions_total",
			Help:      "Nomination submissions, by outcome.",
		}, []string{"outcome"}),
	}
}

// Submit validates raw and persists it, returning the new nomination id.
// Identical submissions are stored twice.
func (s *SubmissionService) Submit(ctx context.Context, raw RawSubmission) (string, error) {
	l := slogx.FromContext(ctx)

	c, err := s.Intake.Validate(raw)
	if err != nil {
		s.submissions.WithLabelValues("rejected").Inc()
		return "", err
	}

	n := c.Nomination
	n.ID = idx.New().String()
	n.CreatedAt = s.now().UTC()

	// 1. Store the file, if any
	if c.File != nil {
		ref, err := s.Blobs.Put(ctx, c.File.Name, c.File.ContentType, c.File.Data)
		if err != nil {
			s.submissions.WithLabelValues("storage_error").Inc()
			l.Error("failed to store cv", slog.String("name", c.File.Name), slog.Any("error", err))
			return "", fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		n.CV = &domain.CVRef{
			Reference:   ref,
			Filename:    c.File.Filename,
			ContentType: c.File.ContentType,
			Size:        int64(len(c.File.Data)),
		}
	}

	// 2. Insert the record
	if err := s.Store.Nominations().CreateNomination(ctx, n); err != nil {
		s.submissions.WithLabelValues("persistence_error").Inc()
		attrs := []any{slog.String("nomination_id", n.ID), slog.Any("error", err)}
		if n.CV != nil {
			attrs = append(attrs, slog.String("orphaned_blob", n.CV.Reference))
		}
		l.Error("failed to save nomination", attrs...)
		return "", fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	s.submissions.WithLabelValues("ok").Inc()
	l.Info("nomination submitted",
		slog.String("nomination_id", n.ID),
		slog.Bool("has_cv", n.CV != nil),
	)
	return n.ID, nil
}
