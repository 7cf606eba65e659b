package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"

	"github.com/jask/sshmgr/internal/database"
	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/logging"
)

// GroupIndex merges the explicit group registry with the labels profiles
// actually carry. Neither source is authoritative on its own.
type GroupIndex struct {
	DB       *sql.DB
	Groups   *repository.GroupRepo
	Profiles *repository.ProfileRepo
	Logger   *log.Logger
}

func isReserved(name string) bool {
	return name == repository.AllLabel || name == repository.UngroupedLabel
}

// checkMutable rejects the reserved labels and the empty name, which is how
// the (ungrouped) bucket is stored.
func checkMutable(name string) error {
	switch name {
	case "", repository.UngroupedLabel:
		return &ReservedNameError{Name: repository.UngroupedLabel}
	case repository.AllLabel:
		return &ReservedNameError{Name: repository.AllLabel}
	}
	return nil
}

// ListGroups returns All, (ungrouped), then every registered or referenced
// group in ascending order.
func (g *GroupIndex) ListGroups(ctx context.Context) ([]string, error) {
	registered, err := g.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	referenced, err := g.Profiles.Groups(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if n == "" || isReserved(n) || seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}
	for _, r := range registered {
		add(r.Name)
	}
	for _, n := range referenced {
		add(n)
	}
	sort.Strings(names)
	return append([]string{repository.AllLabel, repository.UngroupedLabel}, names...), nil
}

// CreateGroup registers name. Registering an existing group is a no-op.
func (g *GroupIndex) CreateGroup(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &repository.ValidationError{Field: "group", Reason: "name required"}
	}
	if isReserved(name) {
		return &ReservedNameError{Name: name}
	}
	return g.Groups.Add(ctx, name)
}

// DeleteGroup removes the group and every profile labelled with it in one
// transaction. It returns how many profiles were deleted.
func (g *GroupIndex) DeleteGroup(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := checkMutable(name); err != nil {
		return 0, err
	}
	var removed int64
	err := database.WithTx(ctx, g.DB, func(tx *sql.Tx) error {
		registered, err := g.Groups.DeleteTx(ctx, tx, name)
		if err != nil {
			return err
		}
		removed, err = g.Profiles.DeleteByGroup(ctx, tx, name)
		if err != nil {
			return err
		}
		if !registered && removed == 0 {
			return notFoundGroup(name)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logging.OrDiscard(g.Logger).Info("group deleted", "group", name, "profiles", removed)
	return removed, nil
}

// RenameGroup moves the registry entry and relabels member profiles.
func (g *GroupIndex) RenameGroup(ctx context.Context, from, to string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if err := checkMutable(from); err != nil {
		return err
	}
	if to == "" {
		return &repository.ValidationError{Field: "group", Reason: "name required"}
	}
	if isReserved(to) {
		return &ReservedNameError{Name: to}
	}
	if from == to {
		return nil
	}
	existing, err := g.Groups.ByName(ctx, to)
	if err != nil {
		return err
	}
	if existing != nil {
		return &repository.ValidationError{Field: "group", Reason: to + " already exists"}
	}
	return database.WithTx(ctx, g.DB, func(tx *sql.Tx) error {
		n, err := g.Profiles.CountInGroup(ctx, tx, from)
		if err != nil {
			return err
		}
		registered, err := g.Groups.ExistsTx(ctx, tx, from)
		if err != nil {
			return err
		}
		if n == 0 && !registered {
			return notFoundGroup(from)
		}
		if err := g.Groups.RenameTx(ctx, tx, from, to); err != nil {
			return err
		}
		_, err = g.Profiles.Relabel(ctx, tx, from, to)
		return err
	})
}

// Similar returns existing groups whose names are within two edits of
// name, ignoring case. Exact matches are excluded.
func (g *GroupIndex) Similar(ctx context.Context, name string) ([]string, error) {
	groups, err := g.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	want := strings.ToLower(name)
	var out []string
	for _, existing := range groups[2:] {
		if existing == name {
			continue
		}
		if levenshtein.ComputeDistance(want, strings.ToLower(existing)) <= 2 {
			out = append(out, existing)
		}
	}
	return out, nil
}
