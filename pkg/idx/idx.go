package idx

import (
	"crypto/rand"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a canonical (uppercase Crockford base32) ULID string.
type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	globalOnce sync.Once
	global     *generator
)

// generator hands out ULIDs from one monotonic source, so ids minted within
// the same millisecond still sort in creation order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) at(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}

// New returns a new ID stamped with the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time. Tests use it to backdate
// object keys.
func NewAt(t time.Time) ID {
	globalOnce.Do(func() {
		global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
	})
	return global.at(t)
}

// Parse validates s and returns it in canonical form. Lowercase input is
// accepted.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	u, err := ulid.ParseStrict(s)
	if err != nil {
		return Zero, ErrInvalid
	}
	return ID(u.String()), nil
}

// MustParse parses or panics. Useful for hard-coded IDs in tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) IsZero() bool { return id == Zero }

func (id ID) String() string { return string(id) }

// Lower is the form used inside object keys.
func (id ID) Lower() string { return strings.ToLower(string(id)) }

// Time extracts the embedded UTC timestamp, or the zero time for an invalid
// ID.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// ObjectKey names a stored object "<prefix>-<lowercase ulid><ext>", e.g.
// "cv-01j9zq6m3x0000000000000000.pdf". ext keeps its leading dot.
func ObjectKey(prefix, ext string) string {
	return prefix + "-" + New().Lower() + ext
}

// FromObjectKey recovers the ID embedded in a key built by ObjectKey.
func FromObjectKey(key, prefix string) (ID, bool) {
	rest, ok := strings.CutPrefix(key, prefix+"-")
	if !ok {
		return Zero, false
	}
	rest = strings.TrimSuffix(rest, path.Ext(rest))
	id, err := Parse(rest)
	if err != nil {
		return Zero, false
	}
	return id, true
}
