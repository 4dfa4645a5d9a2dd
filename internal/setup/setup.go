// Package setup bootstraps and verifies a local todo environment.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/TWRT/todos/internal/client"
	"github.com/TWRT/todos/internal/config"
	"github.com/TWRT/todos/internal/repository"
)

const ExampleEnvFile = ".env.example"

type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

type Check struct {
	Name   string
	Status Status
	Detail string
}

type Report struct {
	Checks []Check
}

func (r *Report) add(name string, status Status, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

// Failed reports whether any required check failed. Warnings do not count.
func (r Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Init writes .env.example into l.Dir, writes .env when it does not exist yet
// and creates the data directory. Existing .env files are never overwritten.
func Init(l config.Loader) (Report, error) {
	var r Report
	dir := l.Dir

	if err := os.WriteFile(filepath.Join(dir, ExampleEnvFile), []byte(config.ExampleEnv), 0644); err != nil {
		return r, fmt.Errorf("writing %s: %w", ExampleEnvFile, err)
	}
	r.add("wrote "+ExampleEnvFile, StatusOK, "")

	envPath := filepath.Join(dir, config.DefaultEnvFile)
	if _, err := os.Stat(envPath); err == nil {
		r.add(config.DefaultEnvFile+" already exists", StatusOK, "left untouched")
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(envPath, []byte(config.ExampleEnv), 0644); err != nil {
			return r, fmt.Errorf("writing %s: %w", config.DefaultEnvFile, err)
		}
		r.add("wrote "+config.DefaultEnvFile, StatusOK, "")
	} else {
		return r, fmt.Errorf("checking %s: %w", config.DefaultEnvFile, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return r, err
	}

	if dataDir := cfg.DataDir(); dataDir != "" {
		dataDir = resolve(dir, dataDir)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return r, fmt.Errorf("creating data directory: %w", err)
		}
		r.add("data directory ready", StatusOK, dataDir)
	}

	return r, nil
}

// Verify checks the environment in dir. health may be nil to skip the API check.
func Verify(ctx context.Context, dir string, cfg *config.Config, health client.HealthChecker) Report {
	var r Report

	checkFile(&r, filepath.Join(dir, ExampleEnvFile), ExampleEnvFile+" exists", StatusFail)
	checkFile(&r, filepath.Join(dir, config.DefaultEnvFile), config.DefaultEnvFile+" exists", StatusWarn)

	dsn := cfg.DSN()
	fileStore := false
	if dataDir := cfg.DataDir(); dataDir != "" {
		dataDir = resolve(dir, dataDir)
		if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
			r.add("data directory exists", StatusFail, dataDir+" (run todo-setup init)")
		} else {
			r.add("data directory exists", StatusOK, dataDir)
		}
		dsn = resolve(dir, cfg.DBPath)
		fileStore = true
	}

	checkStore(ctx, &r, cfg.DBDriver, dsn, fileStore)

	if health != nil {
		hctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if status, err := health.Health(hctx); err != nil {
			r.add("API server running", StatusWarn, "not reachable at "+cfg.APIURL)
		} else {
			r.add("API server running", StatusOK, "status "+status.Status)
		}
	}

	return r
}

// checkStore only reads: SQLite files are opened read-only and a missing file
// is left for the server to create.
func checkStore(ctx context.Context, r *Report, driver, dsn string, fileStore bool) {
	if fileStore {
		if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
			r.add("store opens", StatusWarn, dsn+" not created yet; the server creates it on start")
			return
		}
	}

	db, err := repository.OpenReadOnly(driver, dsn)
	if err != nil {
		r.add("store opens", StatusFail, err.Error())
		return
	}
	defer db.Close()
	r.add("store opens", StatusOK, driver)

	ok, err := db.HasTodosTable(ctx)
	switch {
	case err != nil:
		r.add("todos table exists", StatusFail, err.Error())
	case !ok:
		r.add("todos table exists", StatusWarn, "the server creates it on start")
	default:
		r.add("todos table exists", StatusOK, "")
	}
}

func checkFile(r *Report, path, name string, missing Status) {
	if _, err := os.Stat(path); err != nil {
		r.add(name, missing, path)
		return
	}
	r.add(name, StatusOK, "")
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func Print(w io.Writer, r Report) {
	for _, c := range r.Checks {
		var mark string
		switch c.Status {
		case StatusOK:
			mark = okStyle.Render("ok  ")
		case StatusWarn:
			mark = warnStyle.Render("warn")
		default:
			mark = failStyle.Render("FAIL")
		}
		line := fmt.Sprintf("  %s %s", mark, c.Name)
		if c.Detail != "" {
			line += " (" + c.Detail + ")"
		}
		fmt.Fprintln(w, line)
	}
}
