// ABOUTME: Monotonic request tokens for discarding stale async results
// ABOUTME: Only the most recently issued token's result is accepted

package filter

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sequencer issues ordered tokens. A caller takes a token before starting
// a request and keeps the result only if Accept reports it is still latest.
type Sequencer struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	latest  ulid.ULID
}

func NewSequencer() *Sequencer {
	return &Sequencer{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next issues a token newer than every token issued before it.
func (s *Sequencer) Next() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	if id.Compare(s.latest) <= 0 {
		// Clock went backwards; stay ahead of the last token.
		id = ulid.MustNew(s.latest.Time(), s.entropy)
	}
	s.latest = id
	return id
}

// Accept reports whether token is the most recently issued one.
func (s *Sequencer) Accept(token ulid.ULID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.latest
}
