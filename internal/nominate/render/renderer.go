package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

// Renderer produces the filled nomination document.
type Renderer struct {
	source   *TemplateSource
	filler   FormFiller
	location *time.Location
	now      func() time.Time
	rendered *prometheus.CounterVec
}

type Option func(*Renderer)

// WithClock overrides the render-time clock.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLocation sets the zone date_of_submission is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithRegisterer registers the render counter on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Renderer) {
		r.rendered = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "nominate",
			Name:      "documents_rendered_total",
			Help:      "Nomination documents rendered, by outcome.",
		}, []string{"outcome"})
	}
}

func NewRenderer(source *TemplateSource, filler FormFiller, opts ...Option) *Renderer {
	r := &Renderer{
		source:   source,
		filler:   filler,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fills the template for n. Template read failures wrap
// ErrTemplateUnavailable and are scoped to this call.
func (r *Renderer) Render(ctx context.Context, n domain.Nomination) ([]byte, error) {
	log := slogx.FromContext(ctx)

	tpl, err := r.source.Load()
	if err != nil {
		r.observe("template_error")
		log.ErrorContext(ctx, "load template", slog.String("path", r.source.Path()), slog.Any("err", err))
		return nil, err
	}

	values := Values(n, r.now().In(r.location))
	out, err := r.filler.Fill(ctx, tpl, values)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.observe("canceled")
			return nil, err
		}
		r.observe("fill_error")
		// The file may be mid-replacement; re-read it next time.
		r.source.Invalidate()
		log.ErrorContext(ctx, "fill template", slog.String("nomination_id", n.ID), slog.Any("err", err))
		return nil, fmt.Errorf("render nomination %s: %w", n.ID, err)
	}

	r.observe("ok")
	return out, nil
}

func (r *Renderer) observe(outcome string) {
	if r.rendered != nil {
		r.rendered.WithLabelValues(outcome).Inc()
	}
}
