package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/sshmgr/internal/database"
)

func TestGroupRegistry(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	repo := NewGroupRepo(db)

	require.NoError(t, repo.Add(ctx, "work"))
	require.NoError(t, repo.Add(ctx, "home"))
	require.NoError(t, repo.Add(ctx, "work"))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "home", groups[0].Name)
	require.Equal(t, "work", groups[1].Name)

	g, err := repo.ByName(ctx, "work")
	require.NoError(t, err)
	require.NotNil(t, g)
	missing, err := repo.ByName(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGroupRenameAndDeleteTx(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	groups := NewGroupRepo(db)
	profiles := NewProfileRepo(db)

	require.NoError(t, groups.Add(ctx, "work"))
	f := sampleFields()
	f.Group = "legacy"
	_, err := profiles.Create(ctx, f)
	require.NoError(t, err)

	require.NoError(t, database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := groups.RenameTx(ctx, tx, "work", "office"); err != nil {
			return err
		}
		// legacy only exists through a profile label
		if err := groups.RenameTx(ctx, tx, "legacy", "old"); err != nil {
			return err
		}
		_, err := profiles.Relabel(ctx, tx, "legacy", "old")
		return err
	}))

	list, err := groups.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []Group{{ID: list[0].ID, Name: "office"}, {ID: list[1].ID, Name: "old"}}, list)

	old := "old"
	moved, err := profiles.List(ctx, &old)
	require.NoError(t, err)
	require.Len(t, moved, 1)

	var existed bool
	require.NoError(t, database.WithTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		existed, err = groups.DeleteTx(ctx, tx, "office")
		return err
	}))
	require.True(t, existed)
}
