package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/logging"
	"github.com/jask/sshmgr/internal/service"
)

// Manager is the operation surface the TUI drives.
type Manager interface {
	ListProfiles(ctx context.Context, group string) ([]repository.Profile, error)
	CreateProfile(ctx context.Context, f repository.ProfileFields) (int64, error)
	UpdateProfile(ctx context.Context, id int64, f repository.ProfileFields) error
	DeleteProfile(ctx context.Context, id int64) error

	ListGroups(ctx context.Context) ([]string, error)
	CreateGroup(ctx context.Context, name string) error
	DeleteGroup(ctx context.Context, name string) (int64, error)
	RenameGroup(ctx context.Context, from, to string) error
	SimilarGroups(ctx context.Context, name string) ([]string, error)

	OpenTerminalSession(ctx context.Context, id int64) error
	OpenFileBrowserSession(ctx context.Context, id int64) error
	BrowseRemoteRoot(ctx context.Context, id int64) ([]string, error)

	GetColumnWidths(ctx context.Context) (map[string]int, error)
	SetColumnWidth(ctx context.Context, name string, width int) error
}

// App is the profile manager screen: groups on the left, profiles on the right.
type App struct {
	ctx    context.Context
	mgr    Manager
	logger *log.Logger
	step   int

	focus       pane
	groups      []string
	groupCursor int
	profiles    []repository.Profile
	visible     []repository.Profile
	cursor      int
	column      int
	widths      map[string]int

	filter    string
	filtering bool

	modal       modalState
	inputBuffer string
	form        profileForm
	similarSeen string
	browse      browseMsg
	status      string
}

type pane string

const (
	paneGroups   pane = "groups"
	paneProfiles pane = "profiles"
)

type modalState string

const (
	modalNone          modalState = ""
	modalProfileForm   modalState = "profileForm"
	modalConfirmDelete modalState = "confirmDelete"
	modalNewGroup      modalState = "newGroup"
	modalRenameGroup   modalState = "renameGroup"
	modalConfirmGroup  modalState = "confirmGroupDelete"
	modalBrowse        modalState = "browse"
)

// Columns of the profile table, keyed in table_layout by these names.
var Columns = []string{"ID", "Group", "Name", "Host:Port", "User", "Protocol", "Last used"}

var defaultWidths = map[string]int{
	"ID":        4,
	"Group":     12,
	"Name":      16,
	"Host:Port": 22,
	"User":      10,
	"Protocol":  8,
	"Last used": 19,
}

const minColumnWidth = 3

func New(ctx context.Context, mgr Manager, logger *log.Logger, columnStep int) *App {
	if columnStep <= 0 {
		columnStep = 2
	}
	return &App{
		ctx:    ctx,
		mgr:    mgr,
		logger: logging.OrDiscard(logger),
		step:   columnStep,
		focus:  paneProfiles,
		widths: map[string]int{},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadGroups(), a.loadProfiles(), a.loadWidths())
}

func (a *App) currentGroup() string {
	if a.groupCursor < len(a.groups) {
		return a.groups[a.groupCursor]
	}
	return repository.AllLabel
}

func (a *App) selected() (repository.Profile, bool) {
	if a.cursor < len(a.visible) {
		return a.visible[a.cursor], true
	}
	return repository.Profile{}, false
}

func (a *App) loadGroups() tea.Cmd {
	return func() tea.Msg {
		groups, err := a.mgr.ListGroups(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return groupsMsg(groups)
	}
}

func (a *App) loadProfiles() tea.Cmd {
	group := a.currentGroup()
	return func() tea.Msg {
		list, err := a.mgr.ListProfiles(a.ctx, group)
		if err != nil {
			return errMsg{err}
		}
		return profilesMsg{group: group, list: list}
	}
}

func (a *App) loadWidths() tea.Cmd {
	return func() tea.Msg {
		w, err := a.mgr.GetColumnWidths(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return widthsMsg(w)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.filtering {
			return a.handleFilterKey(m)
		}
		return a.handleKey(m)
	case groupsMsg:
		current := a.currentGroup()
		a.groups = []string(m)
		a.groupCursor = 0
		found := false
		for i, g := range a.groups {
			if g == current {
				a.groupCursor = i
				found = true
			}
		}
		if !found {
			a.cursor = 0
			return a, a.loadProfiles()
		}
	case profilesMsg:
		if m.group != a.currentGroup() {
			return a, nil
		}
		a.profiles = m.list
		a.applyFilter()
	case widthsMsg:
		a.widths = map[string]int(m)
	case browseMsg:
		a.browse = m
		a.modal = modalBrowse
		a.status = ""
	case similarMsg:
		if a.modal == modalNewGroup && strings.TrimSpace(a.inputBuffer) == m.name {
			if len(m.similar) > 0 {
				a.similarSeen = m.name
				a.status = "similar groups exist: " + strings.Join(m.similar, ", ") + " - enter again to create"
				return a, nil
			}
			a.modal = modalNone
			a.inputBuffer = ""
			return a, a.createGroupCmd(m.name)
		}
	case statusMsg:
		a.status = string(m)
	case refreshMsg:
		a.status = string(m)
		return a, tea.Batch(a.loadGroups(), a.loadProfiles())
	case renamedMsg:
		a.groups = m.groups
		a.groupCursor = indexOf(m.groups, m.to)
		a.status = "renamed " + m.from + " to " + m.to
		return a, a.loadProfiles()
	case errMsg:
		a.status = describeErr(m.error)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		if a.focus == paneGroups {
			a.focus = paneProfiles
		} else {
			a.focus = paneGroups
		}
	case "up", "k":
		if a.focus == paneGroups {
			if a.groupCursor > 0 {
				a.groupCursor--
				a.cursor = 0
				return a, a.loadProfiles()
			}
		} else if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.focus == paneGroups {
			if a.groupCursor < len(a.groups)-1 {
				a.groupCursor++
				a.cursor = 0
				return a, a.loadProfiles()
			}
		} else if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
	case "left", "h":
		if a.column > 0 {
			a.column--
		}
	case "right", "l":
		if a.column < len(Columns)-1 {
			a.column++
		}
	case "[":
		return a, a.resizeColumn(-a.step)
	case "]":
		return a, a.resizeColumn(a.step)
	case "/":
		a.filtering = true
		a.status = ""
	case "a":
		a.form = newProfileForm(a.currentGroup())
		a.modal = modalProfileForm
		a.status = ""
	case "e":
		p, ok := a.selected()
		if !ok {
			a.status = "no profile selected"
			return a, nil
		}
		a.form = editProfileForm(p)
		a.modal = modalProfileForm
		a.status = ""
	case "x":
		if _, ok := a.selected(); !ok {
			a.status = "no profile selected"
			return a, nil
		}
		a.modal = modalConfirmDelete
	case "g":
		a.modal = modalNewGroup
		a.inputBuffer = ""
		a.similarSeen = ""
		a.status = ""
	case "r":
		g := a.currentGroup()
		if isReserved(g) {
			a.status = fmt.Sprintf("%s cannot be renamed", g)
			return a, nil
		}
		a.modal = modalRenameGroup
		a.inputBuffer = g
	case "G":
		g := a.currentGroup()
		if isReserved(g) {
			a.status = fmt.Sprintf("%s cannot be deleted", g)
			return a, nil
		}
		a.modal = modalConfirmGroup
	case "enter", "s":
		if p, ok := a.selected(); ok {
			a.status = "opening ssh to " + p.Host + "..."
			return a, a.terminalCmd(p)
		}
	case "f":
		if p, ok := a.selected(); ok {
			a.status = "opening file manager..."
			return a, a.filesCmd(p)
		}
	case "b":
		if p, ok := a.selected(); ok {
			a.status = "browsing " + p.Address() + "..."
			return a, a.browseCmd(p)
		}
	}
	return a, nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.filtering = false
		a.filter = ""
	case tea.KeyEnter:
		a.filtering = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		a.filter = dropLast(a.filter)
	case tea.KeySpace:
		a.filter += " "
	case tea.KeyRunes:
		a.filter += string(m.Runes)
	}
	a.applyFilter()
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalProfileForm:
		return a.handleFormKey(m)
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if p, ok := a.selected(); ok {
				return a, a.deleteProfileCmd(p)
			}
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalConfirmGroup:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.deleteGroupCmd(a.currentGroup())
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalBrowse:
		switch m.String() {
		case "esc", "enter", "q", "b":
			a.modal = modalNone
		}
	case modalNewGroup, modalRenameGroup:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
			a.status = ""
		case tea.KeyEnter:
			text := strings.TrimSpace(a.inputBuffer)
			if text == "" {
				a.status = "enter a value"
				return a, nil
			}
			if a.modal == modalRenameGroup {
				from := a.currentGroup()
				a.modal = modalNone
				a.inputBuffer = ""
				return a, a.renameGroupCmd(from, text)
			}
			if a.similarSeen == text {
				a.modal = modalNone
				a.inputBuffer = ""
				return a, a.createGroupCmd(text)
			}
			return a, a.similarCmd(text)
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			a.inputBuffer = dropLast(a.inputBuffer)
		case tea.KeySpace:
			a.inputBuffer += " "
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.status = ""
	case tea.KeyTab, tea.KeyDown:
		a.form.cursor = (a.form.cursor + 1) % len(formLabels)
	case tea.KeyShiftTab, tea.KeyUp:
		a.form.cursor = (a.form.cursor + len(formLabels) - 1) % len(formLabels)
	case tea.KeyEnter:
		fields, err := a.form.fields()
		if err != nil {
			a.status = describeErr(err)
			return a, nil
		}
		a.modal = modalNone
		if a.form.id == 0 {
			return a, a.createProfileCmd(fields)
		}
		return a, a.updateProfileCmd(a.form.id, fields)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		a.form.values[a.form.cursor] = dropLast(a.form.values[a.form.cursor])
	case tea.KeySpace:
		a.form.values[a.form.cursor] += " "
	case tea.KeyRunes:
		a.form.values[a.form.cursor] += string(m.Runes)
	}
	return a, nil
}

// applyFilter narrows profiles to fuzzy matches of the filter, keeping
// store order. With no fuzzy match it falls back to substring search.
func (a *App) applyFilter() {
	defer a.clampCursor()
	query := strings.TrimSpace(a.filter)
	if query == "" {
		a.visible = a.profiles
		return
	}
	labels := make([]string, len(a.profiles))
	for i, p := range a.profiles {
		labels[i] = strings.Join([]string{p.Name, p.Host, p.User, p.Group}, " ")
	}
	matched := map[int]bool{}
	for _, r := range fuzzy.RankFindNormalizedFold(query, labels) {
		matched[r.OriginalIndex] = true
	}
	if len(matched) == 0 {
		lower := strings.ToLower(query)
		for i, l := range labels {
			if strings.Contains(strings.ToLower(l), lower) {
				matched[i] = true
			}
		}
	}
	a.visible = make([]repository.Profile, 0, len(matched))
	for i, p := range a.profiles {
		if matched[i] {
			a.visible = append(a.visible, p)
		}
	}
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) width(col string) int {
	if w, ok := a.widths[col]; ok && w > 0 {
		return w
	}
	return defaultWidths[col]
}

func (a *App) resizeColumn(delta int) tea.Cmd {
	col := Columns[a.column]
	w := a.width(col) + delta
	if w < minColumnWidth {
		w = minColumnWidth
	}
	a.widths[col] = w
	return func() tea.Msg {
		if err := a.mgr.SetColumnWidth(a.ctx, col, w); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// commands
func (a *App) createProfileCmd(f repository.ProfileFields) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.mgr.CreateProfile(a.ctx, f); err != nil {
			return errMsg{err}
		}
		return refreshMsg("profile added")
	}
}

func (a *App) updateProfileCmd(id int64, f repository.ProfileFields) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.UpdateProfile(a.ctx, id, f); err != nil {
			return errMsg{err}
		}
		return refreshMsg("profile saved")
	}
}

func (a *App) deleteProfileCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.DeleteProfile(a.ctx, p.ID); err != nil {
			return errMsg{err}
		}
		return refreshMsg("deleted " + p.Name)
	}
}

func (a *App) similarCmd(name string) tea.Cmd {
	return func() tea.Msg {
		similar, err := a.mgr.SimilarGroups(a.ctx, name)
		if err != nil {
			return errMsg{err}
		}
		return similarMsg{name: name, similar: similar}
	}
}

func (a *App) createGroupCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.CreateGroup(a.ctx, name); err != nil {
			return errMsg{err}
		}
		return refreshMsg("group " + name + " created")
	}
}

func (a *App) renameGroupCmd(from, to string) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.RenameGroup(a.ctx, from, to); err != nil {
			return errMsg{err}
		}
		groups, err := a.mgr.ListGroups(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return renamedMsg{from: from, to: to, groups: groups}
	}
}

func (a *App) deleteGroupCmd(name string) tea.Cmd {
	return func() tea.Msg {
		n, err := a.mgr.DeleteGroup(a.ctx, name)
		if err != nil {
			return errMsg{err}
		}
		return refreshMsg(fmt.Sprintf("group %s deleted with %d profiles", name, n))
	}
}

// terminalCmd refreshes afterwards even on failure: the attempt is recorded
// in last used either way.
func (a *App) terminalCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.OpenTerminalSession(a.ctx, p.ID); err != nil {
			return refreshMsg(describeErr(err))
		}
		return refreshMsg("ssh session opened for " + p.Name)
	}
}

func (a *App) filesCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		if err := a.mgr.OpenFileBrowserSession(a.ctx, p.ID); err != nil {
			return errMsg{err}
		}
		return statusMsg("file manager opened for " + p.Name)
	}
}

func (a *App) browseCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.mgr.BrowseRemoteRoot(a.ctx, p.ID)
		if err != nil {
			a.logger.Warn("browse failed", "profile", p.ID, "err", err)
			return errMsg{err}
		}
		return browseMsg{title: p.Name + " (" + p.Address() + ")", entries: entries}
	}
}

// messages
type groupsMsg []string

type profilesMsg struct {
	group string
	list  []repository.Profile
}

type widthsMsg map[string]int

type similarMsg struct {
	name    string
	similar []string
}

type browseMsg struct {
	title   string
	entries []string
}

type statusMsg string

// refreshMsg sets the status line and reloads groups and profiles.
type refreshMsg string

type renamedMsg struct {
	from, to string
	groups   []string
}

type errMsg struct{ error }

func describeErr(err error) string {
	var (
		ve  *repository.ValidationError
		rne *service.ReservedNameError
		upe *service.UnsupportedProtocolError
		ce  *service.ConnectionError
		le  *service.LaunchError
	)
	switch {
	case errors.As(err, &ve):
		return "invalid " + ve.Field + ": " + ve.Reason
	case errors.As(err, &rne):
		return rne.Name + " is reserved"
	case errors.Is(err, service.ErrNoFileManager):
		return "no file manager found (install nautilus, nemo, thunar or pcmanfm)"
	case errors.As(err, &upe):
		return "browse needs an SFTP profile"
	case errors.As(err, &ce):
		return "connection failed: " + ce.Err.Error()
	case errors.As(err, &le):
		return "could not start " + le.Program + ": " + le.Err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return "not found (refreshing)"
	}
	return "error: " + err.Error()
}

func isReserved(g string) bool {
	return g == repository.AllLabel || g == repository.UngroupedLabel
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// profile form
var formLabels = []string{"Group", "Name", "Host", "Port", "User", "Secret", "Protocol"}

const (
	fieldGroup = iota
	fieldName
	fieldHost
	fieldPort
	fieldUser
	fieldSecret
	fieldProtocol
)

type profileForm struct {
	id     int64
	values []string
	cursor int
}

func newProfileForm(group string) profileForm {
	if isReserved(group) {
		group = ""
	}
	v := make([]string, len(formLabels))
	v[fieldGroup] = group
	v[fieldPort] = strconv.Itoa(repository.DefaultPort)
	v[fieldProtocol] = string(repository.ProtocolSSH)
	return profileForm{values: v, cursor: fieldName}
}

func editProfileForm(p repository.Profile) profileForm {
	v := make([]string, len(formLabels))
	v[fieldGroup] = p.Group
	v[fieldName] = p.Name
	v[fieldHost] = p.Host
	v[fieldPort] = strconv.Itoa(p.Port)
	v[fieldUser] = p.User
	v[fieldSecret] = p.Secret
	v[fieldProtocol] = string(p.Protocol)
	return profileForm{id: p.ID, values: v, cursor: fieldName}
}

func (f profileForm) fields() (repository.ProfileFields, error) {
	port := repository.DefaultPort
	if s := strings.TrimSpace(f.values[fieldPort]); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return repository.ProfileFields{}, &repository.ValidationError{Field: "port", Reason: "not a number: " + s}
		}
		port = n
	}
	proto, err := repository.ParseProtocol(f.values[fieldProtocol])
	if err != nil {
		return repository.ProfileFields{}, err
	}
	return repository.ProfileFields{
		Group:    strings.TrimSpace(f.values[fieldGroup]),
		Name:     strings.TrimSpace(f.values[fieldName]),
		Host:     strings.TrimSpace(f.values[fieldHost]),
		Port:     port,
		User:     strings.TrimSpace(f.values[fieldUser]),
		Secret:   f.values[fieldSecret],
		Protocol: proto,
	}, nil
}

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle = paneStyle.BorderForeground(lipgloss.Color("63"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	activeColumn = lipgloss.NewStyle().Bold(true).Reverse(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func (a *App) View() string {
	groups := a.renderGroups()
	table := a.renderTable()
	gs, ts := paneStyle, paneStyle
	if a.focus == paneGroups {
		gs = focusedStyle
	} else {
		ts = focusedStyle
	}
	body := titleStyle.Render("SSH Manager") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, gs.Render(groups), ts.Render(table))

	if a.filtering || a.filter != "" {
		body += "\nfilter: " + a.filter
		if a.filtering {
			body += "_"
		}
	}
	body += "\n" + dimStyle.Render("[tab] Pane  [a] Add  [e] Edit  [x] Delete  [g] New group  [r] Rename group  [G] Delete group\n"+
		"[enter/s] SSH  [f] Files  [b] Browse  [/] Filter  [←/→] Column  [[/]] Resize  [q] Quit")
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderGroups() string {
	out := headerStyle.Render("Groups") + "\n"
	for i, g := range a.groups {
		marker := " "
		if i == a.groupCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, g)
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) renderTable() string {
	var header []string
	for i, c := range Columns {
		cell := fit(c, a.width(c))
		if i == a.column {
			cell = activeColumn.Render(cell)
		} else {
			cell = headerStyle.Render(cell)
		}
		header = append(header, cell)
	}
	out := "  " + strings.Join(header, " ") + "\n"
	if len(a.visible) == 0 {
		return out + "  (no profiles)"
	}
	for i, p := range a.visible {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		cells := []string{
			strconv.FormatInt(p.ID, 10),
			p.Group,
			p.Name,
			p.Address(),
			p.User,
			string(p.Protocol),
			p.LastUsed,
		}
		for j, c := range cells {
			cells[j] = fit(c, a.width(Columns[j]))
		}
		out += marker + " " + strings.Join(cells, " ") + "\n"
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalProfileForm:
		title := "New profile"
		if a.form.id != 0 {
			title = fmt.Sprintf("Edit profile %d", a.form.id)
		}
		out := titleStyle.Render(title) + "\n"
		for i, label := range formLabels {
			marker := " "
			if i == a.form.cursor {
				marker = "▶"
			}
			value := a.form.values[i]
			if i == fieldSecret {
				value = strings.Repeat("*", len([]rune(value)))
			}
			out += fmt.Sprintf("%s %-9s %s\n", marker, label+":", value)
		}
		return out + "[tab] Next field  [enter] Save  [esc] Cancel"
	case modalConfirmDelete:
		p, _ := a.selected()
		return titleStyle.Render("Delete profile?") + fmt.Sprintf("\n%s (%s)\n[y] Yes  [n] No", p.Name, p.Address())
	case modalConfirmGroup:
		return titleStyle.Render("Delete group?") +
			fmt.Sprintf("\n%s and every profile in it will be deleted.\n[y] Yes  [n] No", a.currentGroup())
	case modalNewGroup:
		return titleStyle.Render("New group") + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalRenameGroup:
		return titleStyle.Render("Rename group "+a.currentGroup()) + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalBrowse:
		out := titleStyle.Render("Remote files: "+a.browse.title) + "\n"
		if len(a.browse.entries) == 0 {
			out += "  (empty)\n"
		}
		for _, e := range a.browse.entries {
			out += "  " + e + "\n"
		}
		return out + "[esc] Close"
	default:
		return ""
	}
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		if w <= 1 {
			return string(r[:w])
		}
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(r))
}
