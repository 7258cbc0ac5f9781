package repository

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviepicker/internal/model"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := InitDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	models := append(DeviceModels(), CloudModels()...)
	require.NoError(t, Migrate(db, models...))

	repos, err := NewRepositories(db, "test-secret")
	require.NoError(t, err)
	return repos
}

func TestKVRepositoryLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, ok, err := repos.KV.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repos.KV.Set(ctx, "favorites", `[{"id":1}]`))
	require.NoError(t, repos.KV.Set(ctx, "favorites", `[{"id":2}]`))
	require.NoError(t, repos.KV.Set(ctx, "preferences", `{}`))

	value, ok, err := repos.KV.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, value)

	keys, err := repos.KV.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"favorites", "preferences"}, keys)

	require.NoError(t, repos.KV.Remove(ctx, "favorites"))
	require.NoError(t, repos.KV.Remove(ctx, "favorites"))
	_, ok, err = repos.KV.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repos.KV.Clear(ctx))
	keys, err = repos.KV.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSecureRepositoryIsolatedAndEncrypted(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Secure.Set(ctx, "authToken", "bearer-token-value"))

	token, ok, err := repos.Secure.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bearer-token-value", token)

	// 通用键值导出中不可见
	keys, err := repos.KV.Keys(ctx)
	require.NoError(t, err)
	assert.NotContains(t, keys, "authToken")

	// 落盘内容为密文
	var entry model.SecureEntry
	require.NoError(t, repos.DB.Where("entry_key = ?", "authToken").First(&entry).Error)
	assert.False(t, bytes.Contains(entry.Sealed, []byte("bearer-token-value")))

	// KV 清空不影响敏感数据
	require.NoError(t, repos.KV.Clear(ctx))
	_, ok, err = repos.Secure.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repos.Secure.Delete(ctx, "authToken"))
	_, ok, err = repos.Secure.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSecureRepositoryRejectsOtherSecret(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Secure.Set(ctx, "authToken", "abc"))

	other, err := NewSecureRepository(repos.DB, "another-secret")
	require.NoError(t, err)
	_, _, err = other.Get(ctx, "authToken")
	assert.Error(t, err)

	_, err = NewSecureRepository(repos.DB, "")
	assert.Error(t, err)
}

func TestUserRepository(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	user, err := repos.User.Create(ctx, " Ana@Example.com ", "Ana", "senha123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)

	found, err := repos.User.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, repos.User.CheckPassword(found, "senha123"))
	assert.False(t, repos.User.CheckPassword(found, "errada"))

	byID, err := repos.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	missing, err := repos.User.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repos.User.Create(ctx, "ana@example.com", "Ana 2", "outra123")
	assert.Error(t, err)
}

func TestFavoriteRepositoryReplace(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	list, err := repos.Favorite.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repos.Favorite.Replace(ctx, "u1", []model.Favorite{
		{"id": float64(1), "title": "Matrix"},
		{"id": float64(2), "title": "Duna"},
	}))
	require.NoError(t, repos.Favorite.Replace(ctx, "u1", []model.Favorite{
		{"id": float64(2), "title": "Duna"},
	}))

	list, err = repos.Favorite.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Duna", list[0]["title"])

	count, err := repos.Favorite.CountByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProfileRepositoryUpsert(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	p, err := repos.Profile.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repos.Profile.Upsert(ctx, &model.Profile{UserID: "u1", Name: "Ana"}))
	require.NoError(t, repos.Profile.Upsert(ctx, &model.Profile{UserID: "u1", Name: "Ana Paula", Bio: "cinéfila"}))

	p, err = repos.Profile.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ana Paula", p.Name)
	assert.Equal(t, "cinéfila", p.Bio)
}
