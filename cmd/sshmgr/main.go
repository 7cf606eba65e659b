package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/jask/sshmgr/internal/config"
	"github.com/jask/sshmgr/internal/database"
	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/logging"
	"github.com/jask/sshmgr/internal/prefs"
	"github.com/jask/sshmgr/internal/service"
)

func main() {
	root, closeApp := newRootCmd()
	err := root.ExecuteContext(context.Background())
	closeApp()
	if err != nil {
		log.Fatal("sshmgr", "err", err)
	}
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg         config.Config
	logger      *log.Logger
	logCloser   io.Closer
	db          *sql.DB
	mgr         *service.Manager
	transfer    *service.TransferService
	maintenance *service.MaintenanceService
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if v, dirty, err := database.SchemaVersion(cfg.Database.Path); err == nil {
		logger.Debug("schema", "version", v, "dirty", dirty, "path", cfg.Database.Path)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	// repositories
	profiles := repository.NewProfileRepo(db)
	groups := repository.NewGroupRepo(db)
	layout := repository.NewLayoutRepo(db)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		db:        db,
		mgr: &service.Manager{
			Profiles: profiles,
			Layout:   layout,
			Groups:   &service.GroupIndex{DB: db, Groups: groups, Profiles: profiles, Logger: logger},
			Launcher: &service.Launcher{
				Profiles: profiles,
				Runner:   service.ExecRunner{},
				Programs: cfg.Launch,
				Logger:   logger,
			},
			Browser: &service.SFTPBrowser{
				KnownHosts: cfg.SFTP.KnownHosts,
				Timeout:    cfg.SFTP.Timeout,
				Logger:     logger,
			},
		},
		transfer:    &service.TransferService{Profiles: profiles, Logger: logger},
		maintenance: &service.MaintenanceService{DB: db},
	}

	if err := a.importLegacy(ctx); err != nil {
		logger.Warn("legacy import skipped", "path", cfg.Legacy.JSONPath, "err", err)
	}
	return a, nil
}

// importLegacy adopts a first-release servers.json into an empty store.
func (a *app) importLegacy(ctx context.Context) error {
	path := a.cfg.Legacy.JSONPath
	if path == "" {
		return nil
	}
	n, err := a.mgr.Profiles.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	entries, err := prefs.LoadProfiles(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	res, err := a.transfer.Import(ctx, entries)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		a.logger.Warn("legacy entry rejected", "err", e)
	}
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
