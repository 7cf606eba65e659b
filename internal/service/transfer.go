package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/logging"
	"github.com/jask/sshmgr/internal/prefs"
)

// TransferService moves profiles between the store and servers.json files.
type TransferService struct {
	Profiles *repository.ProfileRepo
	Logger   *log.Logger
}

type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Import creates one profile per entry. Invalid entries are reported in
// the result and skipped; entries matching an existing profile are skipped.
func (s *TransferService) Import(ctx context.Context, entries []prefs.LegacyEntry) (ImportResult, error) {
	res := ImportResult{}
	for i, e := range entries {
		line := i + 1
		proto, err := repository.ParseProtocol(e.Protocol)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("entry %d: %w", line, err))
			continue
		}
		port := e.Port
		if port == 0 {
			port = repository.DefaultPort
		}
		f := repository.ProfileFields{
			Group:    e.Group,
			Name:     e.Name,
			Host:     e.Server,
			Port:     port,
			User:     e.User,
			Secret:   e.Password,
			Protocol: proto,
		}
		f, err = repository.ValidateFields(f)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("entry %d: %w", line, err))
			continue
		}
		exists, err := s.Profiles.Exists(ctx, f)
		if err != nil {
			return res, fmt.Errorf("entry %d: %w", line, err)
		}
		if exists {
			res.Skipped++
			continue
		}
		if _, err := s.Profiles.CreateWithLastUsed(ctx, f, e.LastUsed); err != nil {
			return res, fmt.Errorf("entry %d: %w", line, err)
		}
		res.Imported++
	}
	logging.OrDiscard(s.Logger).Info("import finished",
		"imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

// Export returns every profile in the servers.json shape.
func (s *TransferService) Export(ctx context.Context) ([]prefs.LegacyEntry, error) {
	profiles, err := s.Profiles.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]prefs.LegacyEntry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, prefs.LegacyEntry{
			Name:     p.Name,
			Server:   p.Host,
			User:     p.User,
			Port:     p.Port,
			Protocol: string(p.Protocol),
			Password: p.Secret,
			LastUsed: p.LastUsed,
			Group:    p.Group,
		})
	}
	return out, nil
}
