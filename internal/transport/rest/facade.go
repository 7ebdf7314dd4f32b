package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"livequiz/internal/app"
	"livequiz/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuizLoader resolves a quiz definition by id.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, id string) (domain.Quiz, error)
}

// Facade is the REST entry point (it applies no rate limiting): it is
// the only way a session comes into existence, and the only way a
// client checks whether a code is still joinable before opening a
// websocket. Grounded on DoyleJ11-lol-draft-backend's chi router usage.
type Facade struct {
	directory *app.Directory
	quizzes   QuizLoader
	log       *zap.SugaredLogger
}

func NewFacade(directory *app.Directory, quizzes QuizLoader, log *zap.SugaredLogger) *Facade {
	return &Facade{directory: directory, quizzes: quizzes, log: log}
}

// Routes mounts the facade's endpoints onto r.
func (f *Facade) Routes(r chi.Router) {
	r.Post("/sessions", f.createSession)
	r.Get("/sessions/{code}/probe", f.probeSession)
	r.Get("/healthz", f.healthz)
}

type createSessionRequest struct {
	QuizID string `json:"quizId"`
}

type createSessionResponse struct {
	Code string `json:"code"`
}

func (f *Facade) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	quiz, err := f.quizzes.LoadQuiz(r.Context(), req.QuizID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		f.log.Errorw("load quiz failed", "quizId", req.QuizID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	quiz.Sanitize()

	code := f.directory.CreateSession(quiz)
	f.log.Infow("session created", "code", code, "quizId", req.QuizID)
	writeJSON(w, http.StatusCreated, createSessionResponse{Code: code})
}

type probeSessionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// probeSession answers a join-readiness probe by checking state == lobby,
// without mutating anything.
func (f *Facade) probeSession(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	session, ok := f.directory.Lookup(code)
	if !ok {
		writeJSON(w, http.StatusOK, probeSessionResponse{OK: false, Error: "notFound"})
		return
	}
	if session.State() != app.StateLobby {
		writeJSON(w, http.StatusOK, probeSessionResponse{OK: false, Error: "alreadyStarted"})
		return
	}
	writeJSON(w, http.StatusOK, probeSessionResponse{OK: true})
}

func (f *Facade) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
