package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/seekerror/logw"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/engine"
	"github.com/taotao54321/naitou/pkg/pretty"
	"github.com/taotao54321/naitou/pkg/randomopp"
	"github.com/taotao54321/naitou/pkg/thinklog"
	"github.com/taotao54321/naitou/pkg/usi"
)

var (
	mode      = flag.String("mode", "usi", `Operating mode: "usi" (speak USI on stdin/stdout) or "selfplay" (play one game against a random mover)`)
	handicap  = flag.String("handicap", "your-sente", "Starting handicap for -mode=selfplay (your-sente, your-hishaochi, your-nimaiochi, my-sente, my-hishaochi, my-nimaiochi)")
	timelimit = flag.Bool("timelimit", false, "Play under the original 1980s time-control handicap for -mode=selfplay")
	maxPly    = flag.Int("maxply", randomopp.DefaultMaxPly, "Maximum ply count for -mode=selfplay")
	seed      = flag.Int64("seed", 0, "Random seed for -mode=selfplay (0 picks one from the current time)")
	logMode   = flag.String("log", "null", `Thinking-cycle logging for -mode=selfplay: "null" or "verbose"`)
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: naitou [options]

naitou is a bit-exact reimplementation of an early-1980s console shogi engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	switch *mode {
	case "usi":
		runUSI(ctx)
	case "selfplay":
		runSelfplay(ctx)
	default:
		flag.Usage()
		logw.Exitf(ctx, "Unknown -mode %q", *mode)
	}
}

func runUSI(ctx context.Context) {
	e := engine.New(ctx, "naitou", "taotao54321", board.YourSente, false)

	in := engine.ReadStdinLines(ctx)
	driver, out := usi.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}

func runSelfplay(ctx context.Context) {
	h, err := board.ParseHandicap(*handicap)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	var logger ai.Logger = ai.NullLogger{}
	var recorder *thinklog.RecordingLogger
	if *logMode == "verbose" {
		recorder = thinklog.NewRecordingLogger()
		logger = recorder
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	record := randomopp.Play(ctx, h, *timelimit, logger, rng, *maxPly)

	fmt.Print(record)
	fmt.Println(randomopp.Summary(record))

	if recorder != nil {
		fmt.Println(pretty.PrettyLog(recorder.IntoLog()))
	}
}
