package service

import (
	"context"
	"strings"

	"github.com/jask/sshmgr/internal/database/repository"
)

// Manager is the operation surface the TUI and CLI call into.
type Manager struct {
	Profiles *repository.ProfileRepo
	Layout   *repository.LayoutRepo
	Groups   *GroupIndex
	Launcher *Launcher
	Browser  *SFTPBrowser
}

// groupFilter maps a display label to a repository filter; nil means every profile.
func groupFilter(label string) *string {
	label = strings.TrimSpace(label)
	switch label {
	case "", repository.AllLabel:
		return nil
	case repository.UngroupedLabel:
		empty := ""
		return &empty
	}
	return &label
}

// ListProfiles lists profiles in one group, or all for "" and All.
func (m *Manager) ListProfiles(ctx context.Context, group string) ([]repository.Profile, error) {
	return m.Profiles.List(ctx, groupFilter(group))
}

func (m *Manager) GetProfile(ctx context.Context, id int64) (repository.Profile, error) {
	return m.Profiles.Get(ctx, id)
}

func (m *Manager) CreateProfile(ctx context.Context, f repository.ProfileFields) (int64, error) {
	return m.Profiles.Create(ctx, f)
}

func (m *Manager) UpdateProfile(ctx context.Context, id int64, f repository.ProfileFields) error {
	return m.Profiles.Update(ctx, id, f)
}

func (m *Manager) DeleteProfile(ctx context.Context, id int64) error {
	return m.Profiles.Delete(ctx, id)
}

func (m *Manager) ListGroups(ctx context.Context) ([]string, error) {
	return m.Groups.ListGroups(ctx)
}

func (m *Manager) CreateGroup(ctx context.Context, name string) error {
	return m.Groups.CreateGroup(ctx, name)
}

// DeleteGroup deletes the group together with all of its profiles.
func (m *Manager) DeleteGroup(ctx context.Context, name string) (int64, error) {
	return m.Groups.DeleteGroup(ctx, name)
}

func (m *Manager) RenameGroup(ctx context.Context, from, to string) error {
	return m.Groups.RenameGroup(ctx, from, to)
}

func (m *Manager) SimilarGroups(ctx context.Context, name string) ([]string, error) {
	return m.Groups.Similar(ctx, name)
}

func (m *Manager) OpenTerminalSession(ctx context.Context, id int64) error {
	p, err := m.Profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	return m.Launcher.OpenTerminalSession(ctx, p)
}

func (m *Manager) OpenFileBrowserSession(ctx context.Context, id int64) error {
	p, err := m.Profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	return m.Launcher.OpenFileBrowserSession(ctx, p)
}

// BrowseRemoteRoot blocks on the network; run it off the UI loop.
func (m *Manager) BrowseRemoteRoot(ctx context.Context, id int64) ([]string, error) {
	p, err := m.Profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Browser.BrowseRemoteRoot(ctx, p)
}

func (m *Manager) GetColumnWidths(ctx context.Context) (map[string]int, error) {
	return m.Layout.Widths(ctx)
}

func (m *Manager) SetColumnWidth(ctx context.Context, name string, width int) error {
	return m.Layout.SetWidth(ctx, repository.ColumnWidth{Column: name, Width: width})
}
