package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"livequiz/internal/app"
	"livequiz/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLoader struct {
	quiz domain.Quiz
	err  error
}

func (s stubLoader) LoadQuiz(_ context.Context, _ string) (domain.Quiz, error) {
	return s.quiz, s.err
}

func newTestRouter(loader QuizLoader) (*chi.Mux, *app.Directory) {
	dir := app.NewDirectory(func() string { return "p1" })
	facade := NewFacade(dir, loader, zap.NewNop().Sugar())
	r := chi.NewRouter()
	facade.Routes(r)
	return r, dir
}

func testQuiz() domain.Quiz {
	return domain.Quiz{Questions: []domain.Question{
		{Prompt: "q", Answers: []string{"a", "b"}, Correct: []int{0}},
	}}
}

func TestCreateSessionReturnsCode(t *testing.T) {
	r, _ := newTestRouter(stubLoader{quiz: testQuiz()})

	body, _ := json.Marshal(createSessionRequest{QuizID: "quiz-1"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Code, 6)
}

func TestCreateSessionMissingQuizID(t *testing.T) {
	r, _ := newTestRouter(stubLoader{quiz: testQuiz()})

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSessionQuizNotFound(t *testing.T) {
	r, _ := newTestRouter(stubLoader{err: domain.ErrQuizNotFound})

	body, _ := json.Marshal(createSessionRequest{QuizID: "missing"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProbeSessionLobby(t *testing.T) {
	r, dir := newTestRouter(stubLoader{quiz: testQuiz()})
	code := dir.CreateSession(testQuiz())

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+code+"/probe", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp probeSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestProbeSessionAlreadyStarted(t *testing.T) {
	r, dir := newTestRouter(stubLoader{quiz: testQuiz()})
	code := dir.CreateSession(testQuiz())
	session, _ := dir.Lookup(code)
	host := &noopConn{}
	session.HostJoin(host)
	_, err := session.PlayerJoin(&noopConn{}, "Alice")
	require.NoError(t, err)
	require.NoError(t, session.StartGame(host))

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+code+"/probe", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp probeSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "alreadyStarted", resp.Error)
}

func TestProbeSessionNotFound(t *testing.T) {
	r, _ := newTestRouter(stubLoader{quiz: testQuiz()})

	req := httptest.NewRequest(http.MethodGet, "/sessions/000000/probe", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp probeSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "notFound", resp.Error)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(stubLoader{quiz: testQuiz()})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type noopConn struct{}

func (c *noopConn) Send(v any) error { return nil }
