package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sshmgr/internal/config"
	"github.com/jask/sshmgr/internal/database"
	"github.com/jask/sshmgr/internal/database/repository"
)

type store struct {
	db       *sql.DB
	profiles *repository.ProfileRepo
	groups   *repository.GroupRepo
	layout   *repository.LayoutRepo
	index    *GroupIndex
}

func setupStore(t *testing.T) (*store, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "connections.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &store{
		db:       db,
		profiles: repository.NewProfileRepo(db),
		groups:   repository.NewGroupRepo(db),
		layout:   repository.NewLayoutRepo(db),
	}
	s.index = &GroupIndex{DB: db, Groups: s.groups, Profiles: s.profiles}
	return s, ctx
}

var errSpawn = errors.New("spawn refused")

// fakeRunner records every Start call as a single space-joined line.
type fakeRunner struct {
	mu        sync.Mutex
	installed map[string]bool
	calls     []string
	// fail decides per call whether Start errors.
	fail func(name string, args []string) bool
}

func newFakeRunner(installed ...string) *fakeRunner {
	r := &fakeRunner{installed: map[string]bool{}}
	for _, name := range installed {
		r.installed[name] = true
	}
	return r
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.installed[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found")
}

func (r *fakeRunner) Start(name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if r.fail != nil && r.fail(name, args) {
		return errSpawn
	}
	return nil
}

func (r *fakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func testPrograms() config.LaunchConfig {
	return config.LaunchConfig{
		Terminal:       "gnome-terminal",
		TerminalArgs:   []string{"--"},
		SSHClient:      "ssh",
		AuthHelper:     "sshpass",
		FileManagers:   []string{"nautilus", "nemo"},
		ServiceManager: []string{"systemctl", "--user", "restart"},
		Services:       []string{"gvfs-daemon", "gvfs-ssh-volume-monitor"},
		CacheDir:       "/tmp/sshmgr-test-gvfs",
	}
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

func db1Fields() repository.ProfileFields {
	return repository.ProfileFields{
		Group:    "infra",
		Name:     "db1",
		Host:     "10.0.0.5",
		Port:     22,
		User:     "root",
		Secret:   "x",
		Protocol: repository.ProtocolSSH,
	}
}
