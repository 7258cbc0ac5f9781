package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviepicker/internal/model"
)

type fakeCloud struct {
	token      string
	favorites  []model.Favorite
	fetchErr   error
	syncErr    error
	syncCalls  int
	fetchCalls int
}

func (f *fakeCloud) Login(_ context.Context, email, password string) model.LoginResult {
	if password != "secret123" {
		return model.LoginResult{Error: "Credenciais inválidas"}
	}
	return model.LoginResult{Success: true, Token: f.token, User: &model.CloudUser{ID: "u1", Email: email}}
}

func (f *fakeCloud) Register(_ context.Context, email, _, name string) model.RegisterResult {
	return model.RegisterResult{Success: true, User: &model.CloudUser{ID: "u1", Email: email, Name: name}}
}

func (f *fakeCloud) SyncFavorites(_ context.Context, _ string, favorites []model.Favorite) error {
	f.syncCalls++
	if f.syncErr != nil {
		return f.syncErr
	}
	f.favorites = append([]model.Favorite{}, favorites...)
	return nil
}

func (f *fakeCloud) GetFavorites(context.Context, string) ([]model.Favorite, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Favorite{}, f.favorites...), nil
}

func (f *fakeCloud) GetProfile(context.Context, string) (*model.Profile, error) {
	return &model.Profile{Name: "Ana"}, nil
}

func (f *fakeCloud) UpdateProfile(_ context.Context, _ string, p model.Profile) (*model.Profile, error) {
	return &p, nil
}

type managerFixture struct {
	manager *StorageManager
	kv      *memoryStore
	secrets *memoryStore
	cloud   *fakeCloud
}

func newManagerFixture() managerFixture {
	kv := newMemoryStore()
	secrets := newMemoryStore()
	cloud := &fakeCloud{token: "tok-1"}
	return managerFixture{
		manager: NewStorageManager(NewLocalStorage(kv), NewSecureStorage(secrets), cloud),
		kv:      kv,
		secrets: secrets,
		cloud:   cloud,
	}
}

func favoriteIDs(favorites []model.Favorite) []any {
	out := make([]any, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, f["id"])
	}
	return out
}

func TestMergeFavorites(t *testing.T) {
	remote := []model.Favorite{{"id": 1}, {"id": 2}}
	local := []model.Favorite{{"id": 2}, {"id": 3}}
	assert.Equal(t, []any{1, 2, 3}, favoriteIDs(MergeFavorites(remote, local)))

	// 同一来源内的重复不去重
	remote = []model.Favorite{{"id": 1}, {"id": 1}}
	local = []model.Favorite{{"id": 4}, {"id": 4}, {"id": 1}}
	assert.Equal(t, []any{1, 1, 4, 4}, favoriteIDs(MergeFavorites(remote, local)))

	// 数字与字符串 id 不同
	merged := MergeFavorites([]model.Favorite{{"id": 1}}, []model.Favorite{{"id": "1"}})
	assert.Len(t, merged, 2)

	assert.Empty(t, MergeFavorites(nil, nil))
}

func TestAddFavoriteRejectsDuplicate(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()

	res := fx.manager.AddFavorite(ctx, model.Favorite{"id": 603, "title": "Matrix"}, "")
	require.True(t, res.Success)
	require.Len(t, res.Favorites, 1)

	res = fx.manager.AddFavorite(ctx, model.Favorite{"id": 603, "title": "Matrix"}, "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.ErrorIs(t, res.Err, ErrDuplicateFavorite)
	assert.Len(t, fx.manager.GetFavorites(ctx, ""), 1)
	assert.Zero(t, fx.cloud.syncCalls)
}

func TestAddFavoriteWithoutID(t *testing.T) {
	fx := newManagerFixture()
	res := fx.manager.AddFavorite(context.Background(), model.Favorite{"title": "Sem id"}, "")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrFavoriteNoID)
}

func TestAddFavoriteSyncsBestEffort(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	fx.cloud.syncErr = errors.New("offline")

	res := fx.manager.AddFavorite(ctx, model.Favorite{"id": 1}, "tok-1")
	assert.True(t, res.Success)
	assert.Equal(t, 1, fx.cloud.syncCalls)
	assert.Len(t, fx.manager.local.GetFavorites(ctx), 1, "remote failure does not roll back")
}

func TestAddFavoriteLocalWriteFailure(t *testing.T) {
	fx := newManagerFixture()
	fx.kv.failSet = true

	res := fx.manager.AddFavorite(context.Background(), model.Favorite{"id": 1}, "tok-1")
	assert.False(t, res.Success)
	require.Error(t, res.Err)
	assert.NotErrorIs(t, res.Err, ErrDuplicateFavorite)
	assert.Zero(t, fx.cloud.syncCalls)
}

func TestAddFavoriteLocalReadFailure(t *testing.T) {
	fx := newManagerFixture()
	fx.kv.failGet = true

	res := fx.manager.AddFavorite(context.Background(), model.Favorite{"id": 1}, "")
	assert.False(t, res.Success)
	require.Error(t, res.Err)
	assert.NotErrorIs(t, res.Err, ErrDuplicateFavorite)
}

func TestRemoveFavorite(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()

	fx.manager.AddFavorite(ctx, model.Favorite{"id": float64(1)}, "")
	fx.manager.AddFavorite(ctx, model.Favorite{"id": "abc"}, "")

	res := fx.manager.RemoveFavorite(ctx, 1, "tok-1")
	require.True(t, res.Success)
	assert.Equal(t, []any{"abc"}, favoriteIDs(res.Favorites))
	assert.Equal(t, 1, fx.cloud.syncCalls)

	res = fx.manager.RemoveFavorite(ctx, "missing", "")
	assert.True(t, res.Success)
	assert.Len(t, res.Favorites, 1)
}

func TestGetFavoritesPrefersNonEmptyRemote(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	fx.manager.AddFavorite(ctx, model.Favorite{"id": "local"}, "")

	// 云端为空时保留本地
	assert.Equal(t, []any{"local"}, favoriteIDs(fx.manager.GetFavorites(ctx, "tok-1")))

	fx.cloud.fetchErr = errors.New("offline")
	assert.Equal(t, []any{"local"}, favoriteIDs(fx.manager.GetFavorites(ctx, "tok-1")))

	fx.cloud.fetchErr = nil
	fx.cloud.favorites = []model.Favorite{{"id": "remote"}}
	assert.Equal(t, []any{"remote"}, favoriteIDs(fx.manager.GetFavorites(ctx, "tok-1")))
	// 本地缓存被云端覆盖
	assert.Equal(t, []any{"remote"}, favoriteIDs(fx.manager.GetFavorites(ctx, "")))
}

func TestLoginMergesFavorites(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	fx.manager.AddFavorite(ctx, model.Favorite{"id": 2}, "")
	fx.manager.AddFavorite(ctx, model.Favorite{"id": 3}, "")
	fx.cloud.favorites = []model.Favorite{{"id": 1}, {"id": 2}}

	res := fx.manager.Login(ctx, "ana@example.com", "secret123")
	require.True(t, res.Success)
	assert.Equal(t, "tok-1", res.Token)
	assert.True(t, fx.manager.IsLoggedIn(ctx))
	assert.Equal(t, "tok-1", fx.manager.Token(ctx))

	// 本地存储经过 JSON，数字会变成 float64
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, favoriteIDs(fx.manager.local.GetFavorites(ctx)))
	assert.Equal(t, []any{1, 2, float64(3)}, favoriteIDs(fx.cloud.favorites))
}

func TestLoginFailureWritesNothing(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()

	res := fx.manager.Login(ctx, "ana@example.com", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Credenciais inválidas", res.Error)
	assert.False(t, fx.manager.IsLoggedIn(ctx))
	assert.Zero(t, fx.cloud.fetchCalls)
	assert.Empty(t, fx.kv.data)
}

func TestLoginRemoteFetchFailureSkipsMerge(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	fx.manager.AddFavorite(ctx, model.Favorite{"id": 1}, "")
	fx.cloud.fetchErr = errors.New("offline")

	res := fx.manager.Login(ctx, "ana@example.com", "secret123")
	assert.True(t, res.Success)
	assert.Zero(t, fx.cloud.syncCalls)
	assert.Len(t, fx.manager.local.GetFavorites(ctx), 1)
}

func TestLoginTokenSaveFailure(t *testing.T) {
	fx := newManagerFixture()
	fx.secrets.failSet = true

	res := fx.manager.Login(context.Background(), "ana@example.com", "secret123")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrSessionStore)
	assert.Zero(t, fx.cloud.fetchCalls)
}

func TestLogoutKeepsLocalData(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	fx.manager.AddFavorite(ctx, model.Favorite{"id": 1}, "")
	require.NoError(t, fx.manager.SavePreferences(ctx, model.Preferences{Theme: "light", Language: "en"}))
	fx.manager.Login(ctx, "ana@example.com", "secret123")

	require.NoError(t, fx.manager.Logout(ctx))
	assert.False(t, fx.manager.IsLoggedIn(ctx))
	assert.Len(t, fx.manager.GetFavorites(ctx, ""), 1)
	assert.Equal(t, "light", fx.manager.GetPreferences(ctx).Theme)
}

func TestPreferencesDefaults(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()
	assert.Equal(t, model.DefaultPreferences(), fx.manager.GetPreferences(ctx))

	prefs := model.Preferences{Theme: "light", Notifications: false, Language: "en"}
	require.NoError(t, fx.manager.SavePreferences(ctx, prefs))
	assert.Equal(t, prefs, fx.manager.GetPreferences(ctx))

	fx.kv.failGet = true
	assert.Equal(t, model.DefaultPreferences(), fx.manager.GetPreferences(ctx))
}

func TestProfileRequiresLogin(t *testing.T) {
	fx := newManagerFixture()
	ctx := context.Background()

	_, err := fx.manager.GetProfile(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	fx.manager.Login(ctx, "ana@example.com", "secret123")
	p, err := fx.manager.UpdateProfile(ctx, model.Profile{Name: "Ana B"})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", p.Name)
}
