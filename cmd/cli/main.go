package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/service"
	"github.com/rocketscienceinc/tictactoe-ai/internal/terminal"
)

func main() {
	mode := flag.String("mode", entity.WithBotType, "game mode: bot or local")
	configPath := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(conf)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := termenv.NewOutput(os.Stdout)

	session, err := terminal.NewSession(logger, os.Stdin, out, service.NewBotService(logger), *mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if err = session.Run(ctx); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

// initialize logger. Logs go to stderr so they never interleave with the board.
func initLogger(conf *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if conf.LogLevel == "debug" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
