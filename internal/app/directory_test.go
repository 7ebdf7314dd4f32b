package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() (*Directory, *fakeClock) {
	clock := newFakeClock()
	d := NewDirectoryWithTimer(idSeq(), clock.after)
	return d, clock
}

func TestCreateSessionAssignsSixDigitCode(t *testing.T) {
	d, _ := newTestDirectory()
	code := d.CreateSession(singleChoiceQuiz())
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestLookupFindsCreatedSession(t *testing.T) {
	d, _ := newTestDirectory()
	code := d.CreateSession(singleChoiceQuiz())
	s, ok := d.Lookup(code)
	require.True(t, ok)
	assert.Equal(t, code, s.Code())
}

func TestLookupMissReturnsFalse(t *testing.T) {
	d, _ := newTestDirectory()
	_, ok := d.Lookup("000000")
	assert.False(t, ok)
}

func TestZeroPadAlwaysSixDigits(t *testing.T) {
	assert.Equal(t, "000042", zeroPad(42))
	assert.Equal(t, "000000", zeroPad(0))
	assert.Equal(t, "999999", zeroPad(999999))
}

func TestFreshCodeSkipsExistingCodes(t *testing.T) {
	d, _ := newTestDirectory()
	first := d.CreateSession(singleChoiceQuiz())
	second := d.CreateSession(singleChoiceQuiz())
	assert.NotEqual(t, first, second)
}

func TestFinalStateSchedulesReapAndReapRemovesSession(t *testing.T) {
	d, clock := newTestDirectory()
	code := d.CreateSession(singleChoiceQuiz())
	s, _ := d.Lookup(code)

	host := &fakeConn{}
	s.HostJoin(host)
	require.NoError(t, s.EndGame(host))
	assert.Equal(t, StateFinal, s.State())

	// The reap hook schedules the directory's own delayed reap via the
	// injected timer; nothing is removed until that fires.
	_, ok := d.Lookup(code)
	assert.True(t, ok)

	clock.fire()
	_, ok = d.Lookup(code)
	assert.False(t, ok)
}

func TestReapIsIdempotentAcrossTransitionPaths(t *testing.T) {
	d, clock := newTestDirectory()
	code := d.CreateSession(twoQuestionQuiz())
	s, _ := d.Lookup(code)

	host := &fakeConn{}
	s.HostJoin(host)
	_, err := s.PlayerJoin(&fakeConn{}, "Alice")
	require.NoError(t, err)
	require.NoError(t, s.StartGame(host))
	require.NoError(t, s.EndGame(host))

	// EndGame and any lingering auto-advance timer must not double-fire
	// the reap hook (GameSession.maybeReap guards on finalHookFired).
	clock.fire()
	_, ok := d.Lookup(code)
	assert.False(t, ok)
}

