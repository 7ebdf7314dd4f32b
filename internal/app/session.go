package app

import (
	"sort"
	"sync"
	"time"

	"livequiz/internal/domain"
	"livequiz/internal/scoring"
)

// State is one of the four states a GameSession can occupy.
type State string

const (
	StateLobby    State = "lobby"
	StateQuestion State = "question"
	StateQResult  State = "q_result"
	StateFinal    State = "final"
)

const defaultMaxParticipants = 100

const (
	autoRevealDelay  = time.Second
	autoAdvanceDelay = 5 * time.Second
)

// canceler is the subset of *time.Timer that GameSession needs; tests
// substitute a fake so timer firing can be triggered deterministically
// instead of by sleeping.
type canceler interface {
	Stop() bool
}

// afterFunc mirrors time.AfterFunc's signature but returns the narrower
// canceler interface; injectable so tests can control timer firing without
// sleeping.
type afterFunc func(d time.Duration, f func()) canceler

func realAfterFunc(d time.Duration, f func()) canceler {
	return time.AfterFunc(d, f)
}

// GameSession is the per-game state machine: participants, the current
// question, pending answers, and the two timers that race against
// participant input. Every exported method acquires mu for the duration
// of its state mutation, then releases it before doing any connection I/O
// (see internal/app/conn.go) — this is the session's serialization point.
type GameSession struct {
	mu sync.Mutex

	code string
	quiz domain.Quiz

	host Conn

	participants []*participant // join order
	byID         map[string]*participant

	state        State
	currentIndex int
	answers      map[string]*domain.PendingAnswer

	questionStart time.Time

	questionTimer canceler
	autoTimer     canceler

	finalHookFired bool
	reapHook       func()

	maxParticipants int

	idGen     func() string
	now       func() time.Time
	afterFunc afterFunc
}

// NewGameSession creates a session in the lobby state for the given quiz,
// capped at the default participant limit.
func NewGameSession(code string, quiz domain.Quiz, idGen func() string) *GameSession {
	return newGameSession(code, quiz, idGen, time.Now, realAfterFunc, 0)
}

// NewGameSessionWithLimit is like NewGameSession but overrides the
// participant cap; maxParticipants <= 0 falls back to the default.
func NewGameSessionWithLimit(code string, quiz domain.Quiz, idGen func() string, maxParticipants int) *GameSession {
	return newGameSession(code, quiz, idGen, time.Now, realAfterFunc, maxParticipants)
}

// NewGameSessionWithClock is test-only: it injects a clock and timer
// scheduler so tests can control elapsed time and timer firing
// deterministically instead of sleeping.
func NewGameSessionWithClock(code string, quiz domain.Quiz, idGen func() string, now func() time.Time, after func(d time.Duration, f func()) canceler) *GameSession {
	return newGameSession(code, quiz, idGen, now, afterFunc(after), 0)
}

func newGameSession(code string, quiz domain.Quiz, idGen func() string, now func() time.Time, after afterFunc, maxParticipants int) *GameSession {
	if maxParticipants <= 0 {
		maxParticipants = defaultMaxParticipants
	}
	return &GameSession{
		code:            code,
		quiz:            quiz,
		idGen:           idGen,
		now:             now,
		afterFunc:       after,
		state:           StateLobby,
		currentIndex:    -1,
		byID:            make(map[string]*participant),
		answers:         make(map[string]*domain.PendingAnswer),
		maxParticipants: maxParticipants,
	}
}

// SetReapHook registers the callback invoked exactly once, the moment the
// session transitions into the final state. The directory uses this to
// schedule the 10-minute reap.
func (s *GameSession) SetReapHook(fn func()) {
	s.reapHook = fn
}

// Code returns the session's game code. Immutable after construction.
func (s *GameSession) Code() string {
	return s.code
}

// State reports the current state machine state.
func (s *GameSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HostJoin binds conn as the session's host connection.
func (s *GameSession) HostJoin(conn Conn) {
	s.mu.Lock()
	s.host = conn
	jobs := sendToOne(conn, hostJoinedMsg{Type: "host_joined", Pin: s.code})
	s.mu.Unlock()
	deliver(jobs)
}

// PlayerJoin registers a new participant while the session is in lobby.
func (s *GameSession) PlayerJoin(conn Conn, rawName string) (string, error) {
	s.mu.Lock()
	if s.state != StateLobby {
		s.mu.Unlock()
		return "", domain.ErrSessionStarted
	}

	name := domain.SanitizeName(rawName)
	if name == "" {
		s.mu.Unlock()
		return "", domain.ErrInvalidName
	}
	if len(s.participants) >= s.maxParticipants {
		s.mu.Unlock()
		return "", domain.ErrSessionFull
	}
	for _, p := range s.participants {
		if sameNameFold(p.name, name) {
			s.mu.Unlock()
			return "", domain.ErrDuplicateName
		}
	}

	p := &participant{id: s.idGen(), name: name, conn: conn}
	s.participants = append(s.participants, p)
	s.byID[p.id] = p

	jobs := sendToOne(conn, joinedMsg{Type: "joined", PlayerID: p.id, Name: name})
	jobs = append(jobs, sendToHost(s.host, playerJoinedMsg{Type: "player_joined", Name: name, Count: s.liveCountLocked()})...)
	s.mu.Unlock()
	deliver(jobs)
	return p.id, nil
}

// StartGame transitions lobby -> question(0). Requires at least one
// participant and must be invoked by the bound host connection.
func (s *GameSession) StartGame(conn Conn) error {
	s.mu.Lock()
	if conn != s.host {
		s.mu.Unlock()
		return domain.ErrNotHost
	}
	if s.state != StateLobby {
		s.mu.Unlock()
		return domain.ErrWrongState
	}
	if len(s.participants) == 0 {
		s.mu.Unlock()
		return domain.ErrNoParticipants
	}
	jobs := s.enterQuestionLocked(0)
	s.mu.Unlock()
	deliver(jobs)
	return nil
}

// NextQuestion lets the host short-circuit the q_result auto-advance timer.
func (s *GameSession) NextQuestion(conn Conn) error {
	s.mu.Lock()
	if conn != s.host {
		s.mu.Unlock()
		return domain.ErrNotHost
	}
	if s.state != StateQResult {
		s.mu.Unlock()
		return domain.ErrWrongState
	}
	jobs := s.advanceLocked()
	s.mu.Unlock()
	deliver(jobs)
	s.maybeReap()
	return nil
}

// EndGame forces a transition to final from any state, including lobby —
// currentIndex is left at -1 in that case rather than advanced to the
// last question.
func (s *GameSession) EndGame(conn Conn) error {
	s.mu.Lock()
	if conn != s.host {
		s.mu.Unlock()
		return domain.ErrNotHost
	}
	if s.state == StateFinal {
		s.mu.Unlock()
		return domain.ErrWrongState
	}
	jobs := s.enterFinalLocked()
	s.mu.Unlock()
	deliver(jobs)
	s.maybeReap()
	return nil
}

// Answer records or submits a participant's selection for the current
// question.
func (s *GameSession) Answer(participantID string, selection []int, final bool) error {
	s.mu.Lock()
	if s.state != StateQuestion {
		s.mu.Unlock()
		return domain.ErrWrongState
	}
	p, ok := s.byID[participantID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrParticipantNotFound
	}

	pa, exists := s.answers[participantID]
	if !exists {
		pa = &domain.PendingAnswer{}
		s.answers[participantID] = pa
	}
	if pa.Submitted {
		s.mu.Unlock()
		return nil
	}

	q := s.quiz.Questions[s.currentIndex]
	pa.Selection = normalizeSelection(selection)

	submit := final || q.Kind == domain.KindSingle
	if !submit {
		// Provisional multi-choice selection: retained, not yet scored.
		s.mu.Unlock()
		return nil
	}

	elapsed := s.now().Sub(s.questionStart)
	result := scoring.Score(q, pa.Selection, elapsed)
	pa.Submitted = true
	pa.Correct = result.Correct
	pa.Points = result.Points
	p.score += result.Points

	jobs := sendToOne(p.conn, answerReceivedMsg{Type: "answer_received", Correct: result.Correct, Points: result.Points})

	submitted := s.submittedCountLocked()
	live := s.liveCountLocked()
	jobs = append(jobs, sendToHost(s.host, answerCountMsg{Type: "answer_count", Count: submitted, Total: live})...)

	if live > 0 && submitted >= live {
		s.cancelTimersLocked()
		s.autoTimer = s.afterFunc(autoRevealDelay, s.onReveal)
	}
	s.mu.Unlock()
	deliver(jobs)
	return nil
}

// PlayerDisconnect tombstones a participant's connection without removing
// them from the leaderboard.
func (s *GameSession) PlayerDisconnect(participantID string) {
	s.mu.Lock()
	p, ok := s.byID[participantID]
	if !ok || !p.live() {
		s.mu.Unlock()
		return
	}
	p.tombstone()
	live := s.liveCountLocked()
	jobs := sendToHost(s.host, playerLeftMsg{Type: "player_left", Count: live})

	if s.state == StateQuestion && live > 0 && s.submittedCountLocked() >= live {
		s.cancelTimersLocked()
		s.autoTimer = s.afterFunc(autoRevealDelay, s.onReveal)
	}
	s.mu.Unlock()
	deliver(jobs)
}

// HostDisconnect unbinds the host connection. The session is not
// destroyed; timers keep running.
func (s *GameSession) HostDisconnect() {
	s.mu.Lock()
	s.host = nil
	jobs := broadcastToPlayers(s.participants, hostLeftMsg{Type: "host_left"})
	s.mu.Unlock()
	deliver(jobs)
}

// --- state transitions (must hold mu) ---

func (s *GameSession) enterQuestionLocked(index int) []sendJob {
	s.cancelTimersLocked()
	s.currentIndex = index
	s.state = StateQuestion
	s.answers = make(map[string]*domain.PendingAnswer)
	s.questionStart = s.now()

	q := s.quiz.Questions[index]
	total := len(s.quiz.Questions)

	jobs := sendToHost(s.host, newQuestionMsg(index, total, q, true))
	jobs = append(jobs, broadcastToPlayers(s.participants, newQuestionMsg(index, total, q, false))...)

	limit := time.Duration(q.TimeLimit) * time.Second
	s.questionTimer = s.afterFunc(limit, s.onReveal)
	return jobs
}

// revealLocked performs the question -> q_result transition. It is
// idempotent: called from an arbitrary timer or submission-count trigger,
// it is a no-op (beyond clearing stale timers) unless state is question.
func (s *GameSession) revealLocked() []sendJob {
	s.cancelTimersLocked()
	if s.state != StateQuestion {
		return nil
	}

	q := s.quiz.Questions[s.currentIndex]
	isLast := s.currentIndex == len(s.quiz.Questions)-1

	counts := make([]int, len(q.Answers))
	for _, pa := range s.answers {
		if !pa.Submitted {
			continue
		}
		for _, idx := range pa.Selection {
			if idx >= 0 && idx < len(counts) {
				counts[idx]++
			}
		}
	}

	s.state = StateQResult
	lb := s.leaderboardLocked()

	correct := newCorrectField(q)
	hostMsg := questionResultMsg{
		Type: "question_result", Correct: correct, Leaderboard: lb,
		QuestionType: string(q.Kind), IsLast: isLast, AnswerCounts: counts,
	}
	playerMsg := questionResultMsg{
		Type: "question_result", Correct: correct, Leaderboard: lb,
		QuestionType: string(q.Kind), IsLast: isLast,
	}

	jobs := sendToHost(s.host, hostMsg)
	jobs = append(jobs, broadcastToPlayers(s.participants, playerMsg)...)

	s.autoTimer = s.afterFunc(autoAdvanceDelay, s.onAutoAdvance)
	return jobs
}

func (s *GameSession) advanceLocked() []sendJob {
	s.cancelTimersLocked()
	if s.state != StateQResult {
		return nil
	}
	if s.currentIndex >= len(s.quiz.Questions)-1 {
		return s.enterFinalLocked()
	}
	return s.enterQuestionLocked(s.currentIndex + 1)
}

func (s *GameSession) enterFinalLocked() []sendJob {
	s.cancelTimersLocked()
	s.state = StateFinal
	lb := s.leaderboardLocked()
	msg := gameOverMsg{Type: "game_over", Leaderboard: lb}
	jobs := sendToHost(s.host, msg)
	jobs = append(jobs, broadcastToPlayers(s.participants, msg)...)
	return jobs
}

// --- timer callbacks (must NOT hold mu on entry) ---

func (s *GameSession) onReveal() {
	s.mu.Lock()
	jobs := s.revealLocked()
	s.mu.Unlock()
	deliver(jobs)
}

func (s *GameSession) onAutoAdvance() {
	s.mu.Lock()
	jobs := s.advanceLocked()
	s.mu.Unlock()
	deliver(jobs)
	s.maybeReap()
}

// maybeReap fires the reap hook exactly once, the first time state is
// observed final.
func (s *GameSession) maybeReap() {
	s.mu.Lock()
	fire := s.state == StateFinal && !s.finalHookFired
	if fire {
		s.finalHookFired = true
	}
	s.mu.Unlock()
	if fire && s.reapHook != nil {
		s.reapHook()
	}
}

func (s *GameSession) cancelTimersLocked() {
	if s.questionTimer != nil {
		s.questionTimer.Stop()
		s.questionTimer = nil
	}
	if s.autoTimer != nil {
		s.autoTimer.Stop()
		s.autoTimer = nil
	}
}

func (s *GameSession) liveCountLocked() int {
	n := 0
	for _, p := range s.participants {
		if p.live() {
			n++
		}
	}
	return n
}

// submittedCountLocked counts submitted answers from participants who are
// still live. A participant who submitted and then disconnected must not
// inflate this count: both reveal triggers compare it against the live
// count, and a stale tombstoned submitter would fire a premature reveal
// while a remaining live participant is still answering.
func (s *GameSession) submittedCountLocked() int {
	n := 0
	for id, pa := range s.answers {
		if !pa.Submitted {
			continue
		}
		if p, ok := s.byID[id]; ok && p.live() {
			n++
		}
	}
	return n
}

func (s *GameSession) leaderboardLocked() []domain.LeaderboardEntry {
	ordered := make([]*participant, len(s.participants))
	copy(ordered, s.participants)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].score > ordered[b].score
	})
	entries := make([]domain.LeaderboardEntry, len(ordered))
	for i, p := range ordered {
		entries[i] = domain.LeaderboardEntry{Rank: i + 1, Name: p.name, Score: p.score}
	}
	return entries
}

func normalizeSelection(selection []int) []int {
	seen := make(map[int]struct{}, len(selection))
	out := make([]int, 0, len(selection))
	for _, v := range selection {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
