package service

import (
	"context"
	"testing"
	"time"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"
	"go-stock-pos/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedRoles installs the default privileges and roles and returns the roles by code.
func seedRoles(t *testing.T, db *gorm.DB) map[string]*model.Role {
	t.Helper()
	ctx := context.Background()
	privileges := repository.NewPrivilegeRepo(db)
	roles := repository.NewRoleRepo(db)

	require.NoError(t, privileges.SeedDefaults(ctx))
	require.NoError(t, roles.SeedDefaults(ctx))
	all, err := privileges.FindAll(ctx)
	require.NoError(t, err)

	byCode := map[string]*model.Role{}
	for _, code := range []string{model.RoleMasterAdmin, model.RoleAdmin, model.RoleCashier} {
		role, err := roles.FindByCode(ctx, code)
		require.NoError(t, err)
		require.NoError(t, roles.ReplacePrivileges(ctx, role, model.DefaultPrivilegesFor(code, all)))
		role, err = roles.FindByCode(ctx, code)
		require.NoError(t, err)
		byCode[code] = role
	}
	return byCode
}

func newUserService(t *testing.T) (*gorm.DB, UserService, map[string]*model.Role) {
	t.Helper()
	db := testutil.NewDB(t)
	roles := seedRoles(t, db)
	svc := NewUserService(repository.NewUserRepo(db), repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db), repository.NewSaleRepo(db), zap.NewNop())
	return db, svc, roles
}

func TestCreateUserTakesRolePrivileges(t *testing.T) {
	_, svc, roles := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{
		Email:    "Kasir@Example.com",
		Password: "secret1",
		FullName: "Kasir",
		RoleID:   roles[model.RoleCashier].ID,
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "kasir@example.com", user.Email)
	assert.Len(t, user.Privileges, len(roles[model.RoleCashier].Privileges))

	_, err = svc.CreateUser(ctx, &CreateUserRequest{
		Email: "kasir@example.com", Password: "secret1", FullName: "Other", RoleID: roles[model.RoleCashier].ID,
	}, admin)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{
		Email: "new@example.com", Password: "secret1", FullName: "New", RoleID: 999,
	}, admin)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "short@example.com", Password: "123", FullName: "x", RoleID: 1}, admin)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUserRoleResetsPrivileges(t *testing.T) {
	_, svc, roles := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{
		Email: "staff@example.com", Password: "secret1", FullName: "Staff", RoleID: roles[model.RoleCashier].ID,
	}, admin)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, &UpdateUserRequest{
		Email: "staff@example.com", FullName: "Staff Lead", RoleID: roles[model.RoleAdmin].ID,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Staff Lead", updated.FullName)
	assert.Len(t, updated.Privileges, len(roles[model.RoleAdmin].Privileges))

	_, err = svc.UpdateUser(ctx, uuid.New(), &UpdateUserRequest{Email: "a@example.com", FullName: "a", RoleID: 1}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserPrivilegesRejectsUnknownCodes(t *testing.T) {
	_, svc, roles := newUserService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, &CreateUserRequest{
		Email: "staff@example.com", Password: "secret1", FullName: "Staff", RoleID: roles[model.RoleCashier].ID,
	}, admin)
	require.NoError(t, err)

	_, err = svc.UpdateUserPrivileges(ctx, user.ID, []string{model.PrivSaleView, "sale:steal"}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateUserPrivileges(ctx, user.ID, []string{model.PrivSaleView, model.PrivReportView}, admin)
	require.NoError(t, err)
	assert.Len(t, updated.Privileges, 2)
}

func TestDeleteUserWithSalesIsRefused(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	svc := NewUserService(repository.NewUserRepo(f.db), repository.NewPrivilegeRepo(f.db), repository.NewRoleRepo(f.db), repository.NewSaleRepo(f.db), zap.NewNop())

	soap := testutil.CreateProduct(t, f.db, "Soap", 10, "5.00")
	_, err := f.sales.CreateSale(ctx, saleOf(line(soap, 1, "5.00")), f.cashier)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, f.cashier.ID, admin), ErrConflict)
	assert.ErrorIs(t, svc.DeleteUser(ctx, f.cashier.ID, f.cashier), ErrValidation)

	idle := testutil.CreateUser(t, f.db, "idle")
	require.NoError(t, svc.DeleteUser(ctx, idle.ID, admin))
	_, err = svc.GetUserByID(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func newAuthService(t *testing.T) (*gorm.DB, *authService, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "cashier")
	svc := NewAuthService(repository.NewUserRepo(db), jwt.NewManager("test-secret", time.Hour, "test"), nil, 5*time.Minute, zap.NewNop())
	return db, svc.(*authService), user
}

func TestLoginAndValidate(t *testing.T) {
	_, svc, user := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "CASHIER@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	validated, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, validated.User.Email)

	_, err = svc.Login(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSecondLoginReplacesFirstSession(t *testing.T) {
	_, svc, user := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, user.Email, "password")
	require.NoError(t, err)
	_, err = svc.Login(ctx, user.Email, "password")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
}

func TestIdleSessionTimesOut(t *testing.T) {
	_, svc, user := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, user.Email, "password")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)
}

func TestInactiveUserCannotLogin(t *testing.T) {
	db, svc, user := newAuthService(t)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), user.Email, "password")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestResetPasswordRevokesSession(t *testing.T) {
	_, svc, user := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, user.Email, "password")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, user.Email, "wrong", "newsecret"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ResetPassword(ctx, user.Email, "password", "123"), ErrValidation)
	require.NoError(t, svc.ResetPassword(ctx, user.Email, "password", "newsecret"))

	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = svc.Login(ctx, user.Email, "newsecret")
	assert.NoError(t, err)
}
