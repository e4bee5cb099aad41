package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	notificationModel "recycle-rewards-backend/internal/domains/notification/model"
	"recycle-rewards-backend/internal/domains/notification/notificationtest"
	notificationService "recycle-rewards-backend/internal/domains/notification/service"
	"recycle-rewards-backend/internal/domains/user"
	"recycle-rewards-backend/internal/domains/user/usertest"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/pkg/cache"
	"recycle-rewards-backend/pkg/cache/cachetest"
	"recycle-rewards-backend/pkg/database/txtest"
	"recycle-rewards-backend/pkg/jwt"
)

type fakePoints struct {
	balances map[uuid.UUID]int
}

func (f *fakePoints) GetBalance(_ context.Context, userID uuid.UUID) (int, error) {
	return f.balances[userID], nil
}

func (f *fakePoints) Totals(context.Context) (*ledgerModel.Totals, error) {
	return &ledgerModel.Totals{Earned: 480, Redeemed: 150}, nil
}

type fakeRequests struct{}

func (fakeRequests) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{"PENDING": 2, "COMPLETED": 1}, nil
}

type fixture struct {
	svc    user.Service
	repo   *usertest.Repository
	notifs *notificationtest.Repository
	points *fakePoints
	jwt    *jwt.Manager
}

func newFixture() *fixture {
	repo := usertest.NewRepository()
	notifs := notificationtest.NewRepository()
	points := &fakePoints{balances: map[uuid.UUID]int{}}
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	limiter := cache.NewAttemptLimiter(cachetest.New(), cache.KeyLoginFailures, 5, 15*time.Minute)

	svc := NewUserService(repo, txtest.New(repo, notifs), notificationService.NewNotificationService(notifs),
		points, fakeRequests{}, manager, limiter)
	svc.(*userService).bcryptCost = bcrypt.MinCost

	return &fixture{svc: svc, repo: repo, notifs: notifs, points: points, jwt: manager}
}

func (f *fixture) register(t *testing.T, email string, role shared.Role) *user.AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), user.RegisterRequest{
		Email:    email,
		Password: "recycle123",
		FullName: "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesToken(t *testing.T) {
	f := newFixture()

	resp := f.register(t, "Donor@Example.com", shared.RoleDonor)

	assert.Equal(t, "donor@example.com", resp.User.Email)
	assert.Equal(t, shared.RoleDonor, resp.User.Role)
	assert.Zero(t, resp.User.Points)

	claims, err := f.jwt.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "DONOR", claims.Role)
}

func TestRegisterAndLoginNormalizeEmail(t *testing.T) {
	f := newFixture()

	resp := f.register(t, "  Donor@Recycling.INVALID ", shared.RoleDonor)
	assert.Equal(t, "donor@recycling.invalid", resp.User.Email)

	login, err := f.svc.Login(context.Background(), user.LoginRequest{Email: "DONOR@recycling.invalid", Password: "recycle123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateAndAdmin(t *testing.T) {
	f := newFixture()
	f.register(t, "collector@example.com", shared.RoleCollector)

	_, err := f.svc.Register(context.Background(), user.RegisterRequest{
		Email: "collector@example.com", Password: "recycle123", FullName: "Again", Role: shared.RoleCollector,
	})
	assert.True(t, errors.Is(err, user.ErrEmailAlreadyExists))

	_, err = f.svc.Register(context.Background(), user.RegisterRequest{
		Email: "boss@example.com", Password: "recycle123", FullName: "Boss", Role: shared.RoleAdmin,
	})
	assert.Error(t, err)

	_, err = f.repo.FindByEmail(context.Background(), "boss@example.com")
	assert.True(t, errors.Is(err, user.ErrUserNotFound))
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, "donor@example.com", shared.RoleDonor)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "wrong-pass1"})
		require.True(t, errors.Is(err, user.ErrInvalidCredentials), "attempt %d", i+1)
	}

	_, err := f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "recycle123"})
	assert.True(t, errors.Is(err, user.ErrAccountLocked))
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, "donor@example.com", shared.RoleDonor)

	for i := 0; i < 4; i++ {
		_, _ = f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "nope12345"})
	}
	resp, err := f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "recycle123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)

	// counter was reset, so one more failure does not lock
	_, _ = f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "nope12345"})
	_, err = f.svc.Login(ctx, user.LoginRequest{Email: "donor@example.com", Password: "recycle123"})
	assert.NoError(t, err)
}

func TestLoginInactiveUserForbidden(t *testing.T) {
	f := newFixture()
	resp := f.register(t, "donor@example.com", shared.RoleDonor)

	u, _ := f.repo.FindByID(context.Background(), resp.User.ID)
	u.IsActive = false
	f.repo.Put(*u)

	_, err := f.svc.Login(context.Background(), user.LoginRequest{Email: "donor@example.com", Password: "recycle123"})
	assert.True(t, errors.Is(err, user.ErrUserInactive))
}

func TestRefreshToken(t *testing.T) {
	f := newFixture()
	resp := f.register(t, "donor@example.com", shared.RoleDonor)

	refreshed, err := f.svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = f.svc.RefreshToken(context.Background(), resp.Token)
	assert.True(t, errors.Is(err, user.ErrInvalidToken))
}

func TestGetProfileUsesLedgerBalance(t *testing.T) {
	f := newFixture()
	resp := f.register(t, "donor@example.com", shared.RoleDonor)
	f.points.balances[resp.User.ID] = 48

	profile, err := f.svc.GetProfile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 48, profile.Points)

	name := "Renamed Donor"
	updated, err := f.svc.UpdateProfile(context.Background(), resp.User.ID, user.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
}

func TestToggleStatusNotifiesUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := uuid.New()
	target := f.register(t, "collector@example.com", shared.RoleCollector).User.ID

	off, err := f.svc.ToggleStatus(ctx, admin, target)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	on, err := f.svc.ToggleStatus(ctx, admin, target)
	require.NoError(t, err)
	assert.True(t, on.IsActive)

	notifs := f.notifs.ForUser(target)
	require.Len(t, notifs, 2)
	for _, n := range notifs {
		assert.Equal(t, notificationModel.TypeAccountStatus, n.Type)
	}
}

func TestDeactivatedUserFailsEnsureActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	target := f.register(t, "donor@example.com", shared.RoleDonor).User.ID

	require.NoError(t, f.svc.EnsureActive(ctx, target))

	_, err := f.svc.ToggleStatus(ctx, uuid.New(), target)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.Invalidations)
	assert.True(t, errors.Is(f.svc.EnsureActive(ctx, target), user.ErrUserInactive))

	assert.True(t, errors.Is(f.svc.EnsureActive(ctx, uuid.New()), user.ErrInvalidToken))
}

func TestToggleStatusAdminCannotDeactivateSelf(t *testing.T) {
	f := newFixture()
	admin := user.User{ID: uuid.New(), Email: "admin@example.com", Role: shared.RoleAdmin, IsActive: true}
	f.repo.Put(admin)

	_, err := f.svc.ToggleStatus(context.Background(), admin.ID, admin.ID)
	assert.True(t, errors.Is(err, user.ErrCannotDeactivateSelf))
	assert.Empty(t, f.notifs.ForUser(admin.ID))

	_, err = f.svc.ToggleStatus(context.Background(), admin.ID, uuid.New())
	assert.True(t, errors.Is(err, user.ErrUserNotFound))
}

func TestAdminStats(t *testing.T) {
	f := newFixture()
	f.register(t, "d1@example.com", shared.RoleDonor)
	f.register(t, "d2@example.com", shared.RoleDonor)
	f.register(t, "c1@example.com", shared.RoleCollector)

	stats, err := f.svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.UsersByRole[shared.RoleDonor])
	assert.Equal(t, int64(1), stats.UsersByRole[shared.RoleCollector])
	assert.Equal(t, int64(2), stats.RequestsByStatus["PENDING"])
	assert.Equal(t, int64(480), stats.PointsIssued)
	assert.Equal(t, int64(150), stats.PointsRedeemed)
}
