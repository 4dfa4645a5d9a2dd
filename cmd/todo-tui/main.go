package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/TWRT/todos/internal/client/todoapi"
	"github.com/TWRT/todos/internal/config"
	"github.com/TWRT/todos/internal/logging"
	"github.com/TWRT/todos/internal/ui"
)

const logFile = "todo-tui.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		log.Fatal("todo-tui needs an interactive terminal")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the program; debug output goes to a file.
	logger := logging.Discard()
	if strings.EqualFold(cfg.LogLevel, "debug") {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal("open log file", "path", logFile, "err", err)
		}
		defer f.Close()

		logger, err = logging.NewWithWriter(f, logging.Options{
			Level:     cfg.LogLevel,
			Format:    cfg.LogFormat,
			Prefix:    "todo-tui",
			Timestamp: true,
		})
		if err != nil {
			log.Fatal("create logger", "err", err)
		}
	}

	c := todoapi.NewClient(cfg.APIURL, cfg.APITimeout)
	if err := ui.Run(ctx, c, logger); err != nil && ctx.Err() == nil {
		log.Fatal("tui", "err", err)
	}
}
