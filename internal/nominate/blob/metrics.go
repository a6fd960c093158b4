package blob

import (
	"context"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamePrefix = "nominate_blob_"

// Instrumented wraps a Store and counts operations and bytes written.
type Instrumented struct {
	Store

	ops   *prometheus.CounterVec
	bytes prometheus.Counter
}

// Instrument registers blob metrics with registry and wraps s. The driver
// label distinguishes backends when several are registered.
func Instrument(s Store, registry prometheus.Registerer, driver string) *Instrumented {
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"driver": driver}, registry))
	return &Instrumented{
		Store: s,
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: metricNamePrefix + "ops_total",
			Help: "Total number of blob operations by operation and outcome",
		}, []string{"op", "outcome"}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "bytes_written_total",
			Help: "Total bytes written to the blob store",
		}),
	}
}

// BytesWritten exposes the written-bytes counter.
func (i *Instrumented) BytesWritten() prometheus.Counter { return i.bytes }

func (i *Instrumented) observe(op string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	i.ops.WithLabelValues(op, outcome).Inc()
}

func (i *Instrumented) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ref, err := i.Store.Put(ctx, name, contentType, data)
	i.observe("put", err)
	if err == nil {
		i.bytes.Add(float64(len(data)))
	}
	return ref, err
}

func (i *Instrumented) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	rc, err := i.Store.Get(ctx, ref)
	i.observe("get", err)
	return rc, err
}

func (i *Instrumented) Delete(ctx context.Context, ref string) error {
	err := i.Store.Delete(ctx, ref)
	i.observe("delete", err)
	return err
}

func (i *Instrumented) List(ctx context.Context, prefix string) ([]Object, error) {
	objs, err := i.Store.List(ctx, prefix)
	i.observe("list", err)
	return objs, err
}
