package thinklog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/thinklog"
)

func TestRecordingLoggerCapturesOneThinkingCycle(t *testing.T) {
	a := ai.NewAi(board.MySente, false)
	require.True(t, a.IsMyTurn())

	recorder := thinklog.NewRecordingLogger()
	entry := a.Think(recorder)

	log := recorder.IntoLog()
	assert.Equal(t, entry, log.RecordEntry)
	assert.Equal(t, a.ProgressPly(), log.ProgressPly)
}

func TestIntoLogPanicsIfProgressNeverLogged(t *testing.T) {
	recorder := thinklog.NewRecordingLogger()
	assert.Panics(t, func() { recorder.IntoLog() })
}
