package app

import (
	"math/rand"
	"sync"
	"time"

	"livequiz/internal/domain"
)

const defaultReapDelay = 10 * time.Minute

// IDGenerator produces an opaque, session-unique participant id.
type IDGenerator func() string

// Directory maps 6-digit game codes to sessions. It is the sole owner of
// GameSession objects; all further mutation happens inside
// each session's own serialization point.
type Directory struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession

	rnd       *rand.Rand
	rndMu     sync.Mutex
	idGen     IDGenerator
	reapAfter afterFunc

	reapDelay       time.Duration
	maxParticipants int
}

// NewDirectory builds an empty session directory using the default reap
// delay and participant cap.
func NewDirectory(idGen IDGenerator) *Directory {
	return newDirectory(idGen, realAfterFunc, 0, 0)
}

// NewDirectoryWithConfig is like NewDirectory but lets the caller override
// the reap delay and per-session participant cap (e.g. from the
// session.reapDelay / session.maxParticipants config tunables); either
// value <= 0 falls back to its default.
func NewDirectoryWithConfig(idGen IDGenerator, reapDelay time.Duration, maxParticipants int) *Directory {
	return newDirectory(idGen, realAfterFunc, reapDelay, maxParticipants)
}

// NewDirectoryWithTimer is test-only: it injects the timer scheduler used
// both for new sessions' game-over reap and the directory's own delayed
// reap, so tests can trigger reaping without a real 10-minute sleep.
func NewDirectoryWithTimer(idGen IDGenerator, after func(d time.Duration, f func()) canceler) *Directory {
	return newDirectory(idGen, afterFunc(after), 0, 0)
}

func newDirectory(idGen IDGenerator, after afterFunc, reapDelay time.Duration, maxParticipants int) *Directory {
	if reapDelay <= 0 {
		reapDelay = defaultReapDelay
	}
	return &Directory{
		sessions:        make(map[string]*GameSession),
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
		idGen:           idGen,
		reapAfter:       after,
		reapDelay:       reapDelay,
		maxParticipants: maxParticipants,
	}
}

// CreateSession allocates a fresh session in the lobby state for quiz,
// retrying on game-code collisions, and schedules its eventual reap once
// it reaches the final state.
func (d *Directory) CreateSession(quiz domain.Quiz) string {
	code := d.freshCode()

	session := NewGameSessionWithLimit(code, quiz, d.idGen, d.maxParticipants)
	session.SetReapHook(func() {
		d.reapAfter(d.reapDelay, func() { d.Reap(code) })
	})

	d.mu.Lock()
	d.sessions[code] = session
	d.mu.Unlock()

	return code
}

// Lookup returns the session registered under code, if any.
func (d *Directory) Lookup(code string) (*GameSession, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[code]
	return s, ok
}

// Reap unconditionally removes a session from the directory.
func (d *Directory) Reap(code string) {
	d.mu.Lock()
	delete(d.sessions, code)
	d.mu.Unlock()
}

func (d *Directory) freshCode() string {
	for {
		code := d.generateCode()
		d.mu.RLock()
		_, exists := d.sessions[code]
		d.mu.RUnlock()
		if !exists {
			return code
		}
	}
}

func (d *Directory) generateCode() string {
	d.rndMu.Lock()
	n := d.rnd.Intn(1000000)
	d.rndMu.Unlock()
	return zeroPad(n)
}

func zeroPad(n int) string {
	digits := [6]byte{}
	for i := 5; i >= 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[:])
}
