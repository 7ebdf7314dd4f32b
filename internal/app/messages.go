package app

import (
	"encoding/json"

	"livequiz/internal/domain"
)

// Outbound message types, mirroring the websocket wire protocol. Conn.Send
// marshals whichever of these is handed to it; the "type" field is what
// lets the client discriminate the payload.

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type hostJoinedMsg struct {
	Type string `json:"type"`
	Pin  string `json:"pin"`
}

type joinedMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type playerJoinedMsg struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type playerLeftMsg struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type hostLeftMsg struct {
	Type string `json:"type"`
}

type questionMsg struct {
	Type         string        `json:"type"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Question     string        `json:"question"`
	Answers      []string      `json:"answers"`
	Time         int           `json:"time"`
	QuestionType string        `json:"questionType"`
	Image        string        `json:"image,omitempty"`
	Correct      *correctField `json:"correct,omitempty"`
}

type answerReceivedMsg struct {
	Type    string `json:"type"`
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`
}

type answerCountMsg struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

type questionResultMsg struct {
	Type         string                    `json:"type"`
	Correct      correctField              `json:"correct"`
	Leaderboard  []domain.LeaderboardEntry `json:"leaderboard"`
	QuestionType string                    `json:"questionType"`
	IsLast       bool                      `json:"isLast"`
	AnswerCounts []int                     `json:"answerCounts,omitempty"`
}

type gameOverMsg struct {
	Type        string                    `json:"type"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// correctField serializes a question's correct-answer indices: a bare
// scalar for single-choice questions (matching the documented
// "correct: 1" wire shape) and an array for multi-select ones, where more
// than one index can be correct.
type correctField struct {
	indices []int
	scalar  bool
}

func newCorrectField(q domain.Question) correctField {
	return correctField{indices: q.Correct, scalar: q.Kind == domain.KindSingle}
}

func (c correctField) MarshalJSON() ([]byte, error) {
	if c.scalar {
		if len(c.indices) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(c.indices[0])
	}
	return json.Marshal(c.indices)
}

func newQuestionMsg(index, total int, q domain.Question, withCorrect bool) questionMsg {
	msg := questionMsg{
		Type:         "question",
		Index:        index,
		Total:        total,
		Question:     q.Prompt,
		Answers:      q.Answers,
		Time:         q.TimeLimit,
		QuestionType: string(q.Kind),
		Image:        q.Image,
	}
	if withCorrect {
		cf := newCorrectField(q)
		msg.Correct = &cf
	}
	return msg
}
