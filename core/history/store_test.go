package history

import (
	"errors"
	"testing"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, lines ...string) (*Store, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, DefaultFilename, shell.Parser{})
	for _, line := range lines {
		store.Append(shell.Parse(line))
	}
	return store, fs
}

func raws(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Raw)
	}
	return out
}

func TestStore_List(t *testing.T) {
	store, _ := newTestStore(t, "whereami", "movetodir /tmp", "start ls")

	entries := store.List()
	assert.Equal(t, []Entry{
		{Index: 0, Raw: "whereami"},
		{Index: 1, Raw: "movetodir /tmp"},
		{Index: 2, Raw: "start ls"},
	}, entries)
}

func TestStore_List_empty(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Empty(t, store.List())
}

func TestStore_List_assignsReplayIndex(t *testing.T) {
	store, _ := newTestStore(t)
	first := shell.Parse("whereami")
	second := shell.Parse("dalekall")
	store.Append(first)
	store.Append(second)

	store.List()
	idx, ok := first.ReplayIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// Indices follow the current order, not the order at the last listing.
	store.Append(shell.Parse("byebye"))
	store.List()
	idx, _ = second.ReplayIndex()
	assert.Equal(t, 1, idx)
}

func TestStore_Find(t *testing.T) {
	store, _ := newTestStore(t, "whereami", "replay 0", "start ls")

	t.Run("found", func(t *testing.T) {
		cmd, err := store.Find(2)
		require.NoError(t, err)
		assert.Equal(t, "start ls", cmd.Raw)
	})

	t.Run("replay of replay", func(t *testing.T) {
		cmd, err := store.Find(1)
		assert.Nil(t, cmd)

		var chainErr *ReplayChainError
		require.True(t, errors.As(err, &chainErr))
		assert.Equal(t, 1, chainErr.Index)
		assert.Equal(t, "replay 0", chainErr.Entry.Raw)
		assert.Contains(t, chainErr.Error(), `"replay 0"`)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			_, err := store.Find(idx)
			assert.True(t, errors.Is(err, ErrNoSuchEntry))
		}
	})
}

func TestStore_SaveLoad(t *testing.T) {
	store, fs := newTestStore(t, "whereami", "background sleep 100", "not a verb", "history")
	require.NoError(t, store.Save())

	contents, err := afero.ReadFile(fs, DefaultFilename)
	require.NoError(t, err)
	assert.Equal(t, "whereami,background sleep 100,not a verb,history\n", string(contents))

	loaded := NewStore(fs, DefaultFilename, shell.Parser{})
	require.NoError(t, loaded.Load())
	assert.Equal(t, raws(store.List()), raws(loaded.List()))

	// Invalid commands are still kept, they only need to split into words.
	cmd, err := loaded.Find(2)
	require.NoError(t, err)
	assert.False(t, cmd.Valid())
}

func TestStore_Save_empty(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, DefaultFilename, []byte("whereami\n"), 0600))

	require.NoError(t, store.Save())

	contents, err := afero.ReadFile(fs, DefaultFilename)
	require.NoError(t, err)
	assert.Equal(t, "whereami\n", string(contents), "empty save must not truncate")
}

func TestStore_Load_missing(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Load())
	assert.Equal(t, 0, store.Len())
}

func TestStore_Load_skipsBlankEntries(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, DefaultFilename, []byte("whereami,, ,dalekall\r\n\n"), 0600))

	require.NoError(t, store.Load())
	assert.Equal(t, []string{"whereami", "dalekall"}, raws(store.List()))
}

func TestStore_Load_commaSplitsEntries(t *testing.T) {
	store, fs := newTestStore(t, "start echo a,b")
	require.NoError(t, store.Save())

	loaded := NewStore(fs, DefaultFilename, shell.Parser{})
	require.NoError(t, loaded.Load())
	assert.Equal(t, []string{"start echo a", "b"}, raws(loaded.List()))
}

func TestStore_Clear(t *testing.T) {
	store, fs := newTestStore(t, "whereami")
	require.NoError(t, store.Save())

	require.NoError(t, store.Clear())
	assert.Equal(t, 0, store.Len())

	exists, err := afero.Exists(fs, DefaultFilename)
	require.NoError(t, err)
	assert.False(t, exists)

	// Clearing again with no file is fine.
	assert.NoError(t, store.Clear())
}
