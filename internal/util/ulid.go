package util

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDSource hands out ULIDs that are strictly increasing within the source,
// so sorting filter condition IDs gives their creation order.
type IDSource struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewIDSource returns a source reading time from now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID.
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

var defaultIDs = NewIDSource(nil)

// NewULID returns an ID from the process-wide source.
func NewULID() string {
	return defaultIDs.Next()
}
