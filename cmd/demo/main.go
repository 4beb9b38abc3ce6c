package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/comalice/emitx"
	"github.com/comalice/emitx/inspect"
)

type args struct {
	Format   string `arg:"-f,--format" default:"yaml" help:"snapshot format: json, yaml or dot"`
	Prune    bool   `arg:"--prune" help:"drop events whose last listener is removed"`
	LogLevel string `arg:"--log-level" default:"info" help:"logging level (debug, info, warn, error)"`
}

func (args) Description() string {
	return "Runs a few emitter scenarios and prints a snapshot of the result."
}

type greeting struct {
	Text  string
	Count int
}

var (
	greeted = emitx.NewEvent[greeting]("test")
	offTest = emitx.NewEvent[string]("offTest")
	ticked  = emitx.NewEvent[int]("x")
)

func main() {
	var a args
	arg.MustParse(&a)

	format, err := inspect.ParseFormat(a.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", a.LogLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []emitx.Option{emitx.WithLogger(logger)}
	if a.Prune {
		opts = append(opts, emitx.WithPruneEmpty())
	}
	em := emitx.New(opts...)

	if err := run(em, logger); err != nil {
		logger.Error("Scenario failed", "error", err)
		os.Exit(1)
	}

	if err := inspect.Write(os.Stdout, inspect.Take(em), format); err != nil {
		logger.Error("Failed to write snapshot", "error", err)
		os.Exit(1)
	}
	fmt.Println()
}

func run(em *emitx.Emitter, logger *slog.Logger) error {
	emitx.On(em, greeted, emitx.Func(func(g greeting) {
		logger.Info("Greeted", "text", g.Text, "count", g.Count)
	}))
	emitx.Emit(em, greeted, greeting{"hello", 4})
	emitx.Emit(em, greeted, greeting{"hello2", 5})

	g := emitx.Func(func(s string) {
		logger.Info("offTest received", "value", s)
	})
	emitx.On(em, offTest, g)
	emitx.Emit(em, offTest, "a")
	if err := emitx.Off(em, offTest, g); err != nil {
		return fmt.Errorf("remove offTest handler: %w", err)
	}
	emitx.Emit(em, offTest, "b")
	emitx.On(em, offTest, g)
	emitx.Emit(em, offTest, "c")

	emitx.Once(em, ticked, emitx.Func(func(n int) {
		logger.Info("Ticked once", "n", n)
	}))
	emitx.Emit(em, ticked, 1)
	emitx.Emit(em, ticked, 2)
	return nil
}
