package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

func newTestJWT() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *mapUserCache) {
	t.Helper()
	repo := newFakeUserRepo()
	c := newMapUserCache()
	return NewUserService(repo, c, newTestJWT(), zap.NewNop()), repo, c
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterUserRequest{Username: "somchai", Password: "s3cretpass", Name: "Somchai"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = svc.Register(ctx, RegisterUserRequest{Username: "somchai", Password: "another1"})
	assert.True(t, domain.IsKind(err, domain.KindDuplicate))

	token, err := svc.Login(ctx, LoginRequest{Username: "somchai", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOwner, token.Role)

	claims, err := newTestJWT().ValidateToken(token.AccessToken)
	require.NoError(t, err)
	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = svc.Login(ctx, LoginRequest{Username: "somchai", Password: "wrong"})
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "wrong"})
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
}

func TestUserService_FindByIDReadsThroughCache(t *testing.T) {
	svc, repo, c := newUserFixture(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterUserRequest{Username: "a", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.FindByID(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.FindByID(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.finds)
	assert.Contains(t, c.users, u.ID)

	_, err = svc.FindByID(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindUserNotFound))
}

func TestUserService_UpdateRefreshesCache(t *testing.T) {
	svc, _, c := newUserFixture(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterUserRequest{Username: "a", Password: "password1"})
	require.NoError(t, err)
	actor := Actor{ID: u.ID, Role: auth.RoleOwner}
	_, err = svc.FindByID(ctx, u.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, actor, UpdateProfileRequest{Name: "New Name"})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "New Name", c.users[u.ID].Name())

	_, err = svc.UpdateProfile(ctx, actor, UpdateProfileRequest{Email: "broken"})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestUserService_DeleteEvictsCache(t *testing.T) {
	svc, _, c := newUserFixture(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterUserRequest{Username: "a", Password: "password1"})
	require.NoError(t, err)
	actor := Actor{ID: u.ID, Role: auth.RoleOwner}
	_, err = svc.FindByID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actor))

	assert.NotContains(t, c.users, u.ID)
	_, err = svc.GetProfile(ctx, actor)
	assert.True(t, domain.IsKind(err, domain.KindUserNotFound))

	assert.True(t, domain.IsKind(svc.Delete(ctx, Actor{}), domain.KindUnauthorized))
}

func TestHotelService(t *testing.T) {
	svc := NewHotelService(newFakeHotelRepo(), newTestJWT(), zap.NewNop())
	ctx := context.Background()

	h, err := svc.Register(ctx, RegisterHotelRequest{Name: "Paws Inn", Email: "Inn@Example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "inn@example.com", h.Email)

	_, err = svc.Register(ctx, RegisterHotelRequest{Name: "Copy", Email: "inn@example.com", Password: "password1"})
	assert.True(t, domain.IsKind(err, domain.KindDuplicate))

	token, err := svc.Login(ctx, LoginRequest{Username: "INN@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleHotel, token.Role)

	_, err = svc.Login(ctx, LoginRequest{Username: "inn@example.com", Password: "nope"})
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))

	profile, err := svc.GetProfile(ctx, Actor{ID: h.ID, Role: auth.RoleHotel})
	require.NoError(t, err)
	assert.Equal(t, "Paws Inn", profile.Name)

	_, err = svc.GetProfile(ctx, Actor{ID: 404})
	assert.True(t, domain.IsKind(err, domain.KindHotelNotFound))
}
