package ws

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameSingleAnswerIndex(t *testing.T) {
	f, err := decodeFrame([]byte(`{"type":"answer","pin":"123456","answer":2,"final":true}`), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, f.Answer.Selection)
	assert.True(t, f.Final)
}

func TestDecodeFrameMultiAnswerArray(t *testing.T) {
	f, err := decodeFrame([]byte(`{"type":"answer","pin":"123456","answer":[0,2]}`), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, f.Answer.Selection)
	assert.False(t, f.Final)
}

func TestDecodeFrameRejectsOversized(t *testing.T) {
	huge := strings.Repeat("a", 5000)
	_, err := decodeFrame([]byte(`{"type":"player_join","pin":"123456","name":"`+huge+`"}`), 0)
	assert.ErrorIs(t, err, errFrameTooLarge)
}

func TestDecodeFrameRejectsBadPin(t *testing.T) {
	_, err := decodeFrame([]byte(`{"type":"player_join","pin":"12a456","name":"bob"}`), 0)
	assert.Error(t, err)
}

func TestDecodeFrameRejectsMalformedJSON(t *testing.T) {
	_, err := decodeFrame([]byte(`{not json`), 0)
	assert.Error(t, err)
}

func TestDecodeFrameRejectsUnknownType(t *testing.T) {
	_, err := decodeFrame([]byte(`{"type":"teleport","pin":"123456"}`), 0)
	assert.Error(t, err)
}

func TestDecodeFrameHonorsCustomLimit(t *testing.T) {
	_, err := decodeFrame([]byte(`{"type":"host_join","pin":"123456"}`), 10)
	assert.ErrorIs(t, err, errFrameTooLarge)
}
