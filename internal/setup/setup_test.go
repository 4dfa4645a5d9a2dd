package setup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TWRT/todos/internal/client/todoapi"
	"github.com/TWRT/todos/internal/config"
	"github.com/TWRT/todos/internal/repository"
)

func noEnv(string) (string, bool) { return "", false }

type fakeHealth struct {
	err error
}

func (f fakeHealth) Health(ctx context.Context) (todoapi.HealthStatus, error) {
	if f.err != nil {
		return todoapi.HealthStatus{}, f.err
	}
	return todoapi.HealthStatus{Status: "OK"}, nil
}

func loadConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.Loader{Dir: dir, LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func statusOf(t *testing.T, r Report, name string) Status {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Status
		}
	}
	t.Fatalf("no check named %q in %+v", name, r.Checks)
	return StatusFail
}

func TestInitWritesFiles(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(config.Loader{Dir: dir, LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if r.Failed() {
		t.Fatalf("Init() report failed: %+v", r.Checks)
	}

	for _, name := range []string{ExampleEnvFile, config.DefaultEnvFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != config.ExampleEnv {
			t.Errorf("%s content mismatch", name)
		}
	}
	if info, err := os.Stat(filepath.Join(dir, "data")); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestInitKeepsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	existing := "PORT=4000\n"
	if err := os.WriteFile(filepath.Join(dir, config.DefaultEnvFile), []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Init(config.Loader{Dir: dir, LookupEnv: noEnv}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultEnvFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != existing {
		t.Errorf(".env overwritten: %q", data)
	}
}

func TestVerifyAfterInit(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(config.Loader{Dir: dir, LookupEnv: noEnv}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	r := Verify(context.Background(), dir, loadConfig(t, dir), fakeHealth{})
	if r.Failed() {
		t.Fatalf("Verify() failed: %+v", r.Checks)
	}
	if got := statusOf(t, r, "store opens"); got != StatusWarn {
		t.Errorf("store opens = %v, want warn before the server ran", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "todos.db")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Verify() created the database file: %v", err)
	}
	if got := statusOf(t, r, "API server running"); got != StatusOK {
		t.Errorf("API server running = %v", got)
	}
}

func TestVerifyExistingStoreIsReadOnly(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(config.Loader{Dir: dir, LookupEnv: noEnv}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	path := filepath.Join(dir, "data", "todos.db")
	db, err := repository.InitDB(repository.DriverSQLite, path)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	db.Close()

	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	r := Verify(context.Background(), dir, loadConfig(t, dir), nil)
	if r.Failed() {
		t.Fatalf("Verify() failed: %+v", r.Checks)
	}
	if got := statusOf(t, r, "store opens"); got != StatusOK {
		t.Errorf("store opens = %v", got)
	}
	if got := statusOf(t, r, "todos table exists"); got != StatusOK {
		t.Errorf("todos table exists = %v", got)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Errorf("Verify() modified %s", path)
	}
}

func TestVerifyEmptyDir(t *testing.T) {
	dir := t.TempDir()

	r := Verify(context.Background(), dir, loadConfig(t, dir), nil)
	if !r.Failed() {
		t.Fatal("Verify() on empty dir passed")
	}
	if got := statusOf(t, r, ExampleEnvFile+" exists"); got != StatusFail {
		t.Errorf(".env.example check = %v, want fail", got)
	}
	if got := statusOf(t, r, config.DefaultEnvFile+" exists"); got != StatusWarn {
		t.Errorf(".env check = %v, want warn", got)
	}
	if got := statusOf(t, r, "data directory exists"); got != StatusFail {
		t.Errorf("data directory check = %v, want fail", got)
	}
}

func TestVerifyServerDownIsWarning(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(config.Loader{Dir: dir, LookupEnv: noEnv}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	r := Verify(context.Background(), dir, loadConfig(t, dir), fakeHealth{err: errors.New("connection refused")})
	if r.Failed() {
		t.Fatalf("Verify() failed: %+v", r.Checks)
	}
	if got := statusOf(t, r, "API server running"); got != StatusWarn {
		t.Errorf("API server running = %v, want warn", got)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Report{Checks: []Check{
		{Name: "store opens", Status: StatusOK, Detail: "sqlite"},
		{Name: "data directory exists", Status: StatusFail},
	}})

	out := buf.String()
	if !strings.Contains(out, "store opens (sqlite)") || !strings.Contains(out, "data directory exists") {
		t.Errorf("Print() output:\n%s", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Print() lines = %d, want 2", strings.Count(out, "\n"))
	}
}
