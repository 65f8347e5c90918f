package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumanage/core/session"
	"github.com/trezcool/edumanage/core/user"
	"github.com/trezcool/edumanage/storage/kv"
)

func openStore(t *testing.T, path string) *kvstore.Store {
	store, err := kvstore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_user(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "prefs", "edumanage.db"))

	_, ok, err := store.LoadUser()
	require.NoError(t, err)
	assert.False(t, ok)

	usr := user.User{ID: "u5", Name: "Lisa Learner", Email: "lisa@edumanage.com", Role: user.RoleStudent}
	require.NoError(t, store.SaveUser(usr))

	got, ok, err := store.LoadUser()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, usr, got)

	require.NoError(t, store.ClearUser())
	_, ok, err = store.LoadUser()
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing twice is fine
	assert.NoError(t, store.ClearUser())
}

func TestStore_persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edumanage.db")

	store, err := kvstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveTheme(session.ThemeDark))
	require.NoError(t, store.SaveUser(user.User{ID: "u2", Name: "John Trainer", Role: user.RoleTrainer}))
	require.NoError(t, store.Close())

	store = openStore(t, path)
	theme, ok, err := store.LoadTheme()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, session.ThemeDark, theme)

	usr, ok, err := store.LoadUser()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user.ID("u2"), usr.ID)
}
