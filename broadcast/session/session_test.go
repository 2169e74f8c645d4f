package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/groupcaster/core/database"
)

func sampleSession(owner int64) *Session {
	return &Session{
		OwnerID: owner,
		State:   StateEditingPost,
		Groups: []Group{
			{ID: -100100, Handle: "@foo", Title: "Foo"},
			{ID: -100200, Handle: "https://t.me/+inv", Title: "Private"},
		},
		Post: &Post{
			Kind:    PostAlbum,
			AlbumID: "13579",
			Caption: "launch day",
			Items: []MediaItem{
				{Kind: PostPhoto, FileID: "photo-1"},
				{Kind: PostVideo, FileID: "video-2"},
			},
		},
		ConfirmPending: true,
		UpdatedAt:      time.UnixMilli(1_700_000_000_123).UTC(),
	}
}

func TestSessionGroups(t *testing.T) {
	s := New(1)
	require.Equal(t, StateIdle, s.State)
	require.True(t, s.AddGroup(Group{ID: 10, Handle: "@a"}))
	require.False(t, s.AddGroup(Group{ID: 10, Handle: "@A"}))
	require.True(t, s.AddGroup(Group{ID: 20, Handle: "@b"}))
	require.Len(t, s.Groups, 2)
	require.True(t, s.RemoveGroup(10))
	require.False(t, s.RemoveGroup(10))
	require.Equal(t, []Group{{ID: 20, Handle: "@b"}}, s.Groups)
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleSession(1)
	cp := orig.Clone()
	cp.Groups[0].Handle = "@changed"
	cp.Post.Items[0].FileID = "changed"
	cp.Post.Caption = "changed"
	require.Equal(t, "@foo", orig.Groups[0].Handle)
	require.Equal(t, "photo-1", orig.Post.Items[0].FileID)
	require.Equal(t, "launch day", orig.Post.Caption)
}

func TestGroupLabel(t *testing.T) {
	require.Equal(t, "@foo", Group{ID: 1, Handle: "@foo", Title: "Foo"}.Label())
	require.Equal(t, "Foo", Group{ID: 1, Title: "Foo"}.Label())
	require.Equal(t, "chat", Group{ID: 1}.Label())
}

// exerciseStore runs the behaviour every backing must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	want := sampleSession(42)
	require.NoError(t, store.Put(ctx, want))
	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, want, got)

	got.Post = nil
	got.State = StateIdle
	got.ConfirmPending = false
	got.Groups = got.Groups[:1]
	require.NoError(t, store.Put(ctx, got))
	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, again.Post)
	require.Equal(t, StateIdle, again.State)
	require.False(t, again.ConfirmPending)
	require.Len(t, again.Groups, 1)

	require.NoError(t, store.Put(ctx, New(7)))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, store.Delete(ctx, 42))
	_, err = store.Get(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, 42))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := sampleSession(1)
	require.NoError(t, store.Put(ctx, s))
	s.Groups[0].Handle = "@mutated"
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "@foo", got.Groups[0].Handle)
}

func TestSQLStoreSQLite(t *testing.T) {
	db, err := coredatabase.Connect(coredatabase.Config{
		Driver: coredatabase.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "sessions.db"),
	}, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, coredatabase.RunMigrations(db, Migrations, MigrationsDir))

	exerciseStore(t, NewSQLStore(db))
}

func TestCodecRoundTripKeepsTimestampMillis(t *testing.T) {
	s := sampleSession(9)
	s.UpdatedAt = s.UpdatedAt.Add(987 * time.Microsecond)
	data, err := encodeSession(s)
	require.NoError(t, err)
	got, err := decodeSession(data)
	require.NoError(t, err)
	require.Equal(t, s.UpdatedAt.Truncate(time.Millisecond), got.UpdatedAt)
	require.Equal(t, s.Post, got.Post)
}

func TestDecodeDefaultsToIdle(t *testing.T) {
	got, err := decodeSession([]byte(`{"owner_id":5}`))
	require.NoError(t, err)
	require.Equal(t, StateIdle, got.State)
	require.True(t, got.UpdatedAt.IsZero())
}

func TestRedisStoreKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "", -time.Second)
	require.Equal(t, "groupcaster:session:-42", store.key(-42))
	require.Zero(t, store.ttl)

	custom := NewRedisStore(client, "bot:", time.Hour)
	require.Equal(t, "bot:7", custom.key(7))
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Normalize())
	require.Equal(t, DriverMemory, cfg.Driver)
	require.False(t, cfg.UsesSQL())

	cfg = Config{Driver: "SQLite3", DB: coredatabase.Config{Path: "bot.db"}}
	require.NoError(t, cfg.Normalize())
	require.Equal(t, DriverSQLite, cfg.Driver)
	require.Equal(t, DriverSQLite, cfg.DB.Driver)
	require.True(t, cfg.UsesSQL())

	for _, bad := range []Config{
		{Driver: "mongo"},
		{Driver: DriverRedis},
		{Driver: DriverPostgres},
		{Driver: DriverRedis, RedisURL: "redis://localhost:6379/0", TTL: -time.Minute},
	} {
		bad := bad
		require.Error(t, bad.Normalize(), "driver %q", bad.Driver)
	}
}

func TestOpenMemoryAndMissingDB(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Driver: DriverMemory}, nil)
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	_, err = Open(ctx, Config{Driver: DriverSQLite}, nil)
	require.Error(t, err)

	_, err = Open(ctx, Config{Driver: DriverRedis, RedisURL: "not a url"}, nil)
	require.Error(t, err)
}
