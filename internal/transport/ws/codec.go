package ws

import (
	"encoding/json"
	"errors"
	"regexp"
)

// maxFrameBytes is the default inbound frame size cap; the
// transport layer wires config.Session.MaxFrameBytes through instead when
// a non-default value is configured.
const maxFrameBytes = 4096

var pinPattern = regexp.MustCompile(`^\d{6}$`)

var errFrameTooLarge = errors.New("frame exceeds maximum size")

const (
	typeHostJoin     = "host_join"
	typePlayerJoin   = "player_join"
	typeStartGame    = "start_game"
	typeNextQuestion = "next_question"
	typeEndGame      = "end_game"
	typeAnswer       = "answer"
)

// inboundFrame is the wire shape of every client-to-server message. Only
// the fields relevant to Type are populated by the sender; unused fields
// are left zero.
type inboundFrame struct {
	Type   string      `json:"type"`
	Pin    string      `json:"pin"`
	Name   string      `json:"name"`
	Answer answerField `json:"answer"`
	Final  bool        `json:"final"`
}

// answerField accepts either a single index or an array of indices, per
// the wire protocol's "answer: index | index[]" union, normalizing to a slice.
type answerField struct {
	Selection []int
}

func (a *answerField) UnmarshalJSON(b []byte) error {
	var single int
	if err := json.Unmarshal(b, &single); err == nil {
		a.Selection = []int{single}
		return nil
	}
	var many []int
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	a.Selection = many
	return nil
}

// decodeFrame parses a single inbound message, enforcing the size cap and
// the pin format. A malformed or oversized frame yields an
// error that the caller either reports to the sender (too large) or
// silently drops (anything else — per spec, malformed frames are
// dropped, not surfaced).
func decodeFrame(raw []byte, limit int) (inboundFrame, error) {
	if limit <= 0 {
		limit = maxFrameBytes
	}
	if len(raw) > limit {
		return inboundFrame{}, errFrameTooLarge
	}

	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return inboundFrame{}, err
	}
	switch f.Type {
	case typeHostJoin, typePlayerJoin, typeStartGame, typeNextQuestion, typeEndGame, typeAnswer:
	default:
		return inboundFrame{}, errors.New("unrecognized message type")
	}
	if !pinPattern.MatchString(f.Pin) {
		return inboundFrame{}, errors.New("invalid pin format")
	}
	return f, nil
}
