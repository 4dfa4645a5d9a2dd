package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/client"
	"github.com/TWRT/todos/internal/client/todoapi"
	"github.com/TWRT/todos/internal/config"
	"github.com/TWRT/todos/internal/setup"
)

var errChecksFailed = errors.New("setup checks failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errChecksFailed) && !errors.Is(err, flag.ErrHelp) {
			log.Error("todo-setup", "err", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return flag.ErrHelp
	}

	switch args[0] {
	case "init":
		return initCommand(args[1:], out)
	case "verify":
		return verifyCommand(ctx, args[1:], out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func initCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("todo-setup init", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Project directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(out, "Setting up todo environment")
	r, err := setup.Init(config.Loader{Dir: *dir})
	setup.Print(out, r)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nNext: review .env, start the server, then run todo-setup verify")
	return nil
}

func verifyCommand(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("todo-setup verify", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Project directory")
	skipAPI := fs.Bool("skip-api", false, "Do not check whether the API server is running")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Loader{Dir: *dir}.Load()
	if err != nil {
		return err
	}

	var health client.HealthChecker
	if !*skipAPI {
		health = todoapi.NewClient(cfg.APIURL, 3*time.Second)
	}

	fmt.Fprintln(out, "Verifying todo environment")
	r := setup.Verify(ctx, *dir, cfg, health)
	setup.Print(out, r)

	if r.Failed() {
		fmt.Fprintln(out, "\nSome required checks failed. Run todo-setup init first.")
		return errChecksFailed
	}
	fmt.Fprintln(out, "\nAll required checks passed.")
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: todo-setup <command> [flags]

Commands:
  init     write .env.example and .env, create the data directory
  verify   check files, data directory, store and API health

Flags:
  -dir string   project directory (default ".")
  -skip-api     verify only: skip the API health check`)
}
