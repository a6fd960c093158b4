// Package badger stores blobs in an embedded Badger key-value database.
package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
)

// Each value carries an 8 byte big-endian unix-millisecond write time ahead
// of the blob bytes, since badger keeps no per-key timestamps we can read.
const headerSize = 8

type Store struct {
	db     *badger.DB
	logger *slog.Logger
	dir    string
}

type OptionFunc func(*Store)

// WithDataDir persists blobs under dir. Without it the store is in-memory.
func WithDataDir(dir string) OptionFunc {
	return func(s *Store) { s.dir = dir }
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(s *Store) { s.logger = logger }
}

func New(opts ...OptionFunc) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var badgerOpts badger.Options
	if s.dir == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return nil, fmt.Errorf("badger blob: create data dir: %w", err)
		}
		badgerOpts = badger.DefaultOptions(s.dir).WithCompression(options.Snappy)
	}
	badgerOpts = badgerOpts.
		WithLogger(&badgerLogger{logger: s.logger}).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("badger blob: open: %w", err)
	}
	s.db = db
	return s, nil
}

func (s *Store) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := blob.ValidateName(name); err != nil {
		return "", err
	}

	val := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(val, uint64(time.Now().UnixMilli())) // #nosec G115 - post-1970 clock
	copy(val[headerSize:], data)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), val)
	})
	if err != nil {
		return "", fmt.Errorf("badger blob: put %q: %w", name, err)
	}
	return name, nil
}

func (s *Store) Get(_ context.Context, ref string) (io.ReadCloser, error) {
	if err := blob.ValidateName(ref); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ref))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		data = val[headerSize:]
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger blob: get %q: %w", ref, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Delete(_ context.Context, ref string) error {
	if err := blob.ValidateName(ref); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(ref))
	})
}

func (s *Store) List(_ context.Context, prefix string) ([]blob.Object, error) {
	out := make([]blob.Object, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var written time.Time
			err := item.Value(func(val []byte) error {
				if len(val) < headerSize {
					return fmt.Errorf("badger blob: corrupt value for %q", item.Key())
				}
				written = time.UnixMilli(int64(binary.BigEndian.Uint64(val[:headerSize]))) // #nosec G115
				return nil
			})
			if err != nil {
				return err
			}
			out = append(out, blob.Object{
				Ref:     string(item.KeyCopy(nil)),
				Size:    item.ValueSize() - headerSize,
				ModTime: written,
			})
		}
		return nil
	})
	return out, err
}

func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger blob: database closed")
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(msg string, args ...any) {
	l.logger.Error(fmt.Sprintf(msg, args...), "component", "blob")
}

func (l *badgerLogger) Warningf(msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(msg, args...), "component", "blob")
}

func (l *badgerLogger) Infof(msg string, args ...any) {
	l.logger.Info(fmt.Sprintf(msg, args...), "component", "blob")
}

func (l *badgerLogger) Debugf(msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(msg, args...), "component", "blob")
}
