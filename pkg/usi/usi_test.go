package usi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/engine"
	"github.com/taotao54321/naitou/pkg/usi"
)

// recvLine reads the next line from out, failing the test if none arrives promptly.
func recvLine(t *testing.T, out <-chan string) string {
	t.Helper()
	select {
	case line, ok := <-out:
		require.True(t, ok, "output channel closed unexpectedly")
		return line
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for driver output")
		return ""
	}
}

func TestHandshake(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "taotao54321", board.YourSente, false)
	in := make(chan string, 10)
	_, out := usi.NewDriver(ctx, e, in)

	in <- "usi"
	assert.Contains(t, recvLine(t, out), "id name")
	assert.Contains(t, recvLine(t, out), "id author")
	assert.Contains(t, recvLine(t, out), "option name timelimit")
	assert.Equal(t, "usiok", recvLine(t, out))

	in <- "isready"
	assert.Equal(t, "readyok", recvLine(t, out))

	close(in)
}

func TestGoAfterStartposReportsBestmove(t *testing.T) {
	ctx := context.Background()
	// MySente: the engine moves first, so "position startpos" followed by "go" must
	// immediately yield a bestmove.
	e := engine.New(ctx, "naitou", "taotao54321", board.MySente, false)
	in := make(chan string, 10)
	_, out := usi.NewDriver(ctx, e, in)

	in <- "usi"
	recvLine(t, out) // id name
	recvLine(t, out) // id author
	recvLine(t, out) // option
	recvLine(t, out) // usiok

	in <- "isready"
	recvLine(t, out) // readyok

	in <- "usinewgame"
	in <- "position startpos"
	in <- "go"

	line := recvLine(t, out)
	assert.Contains(t, line, "bestmove")

	close(in)
}

func TestQuitClosesDriver(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "taotao54321", board.YourSente, false)
	in := make(chan string, 10)
	d, _ := usi.NewDriver(ctx, e, in)

	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close after quit")
	}
}
