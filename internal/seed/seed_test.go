package seed

import (
	"context"
	"testing"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"
	"go-stock-pos/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cfg := config.SeedConfig{AdminEmail: "Boss@Example.com", AdminPassword: "secret"}

	require.NoError(t, Run(ctx, db, cfg, zap.NewNop()))
	require.NoError(t, Run(ctx, db, cfg, zap.NewNop()))

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	admin, err := repository.NewUserRepo(db).FindByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMasterAdmin, admin.RoleCode())
	assert.Len(t, admin.Privileges, len(model.DefaultPrivileges))
	assert.True(t, admin.CheckPassword("secret"))

	cashier, err := repository.NewRoleRepo(db).FindByCode(ctx, model.RoleCashier)
	require.NoError(t, err)
	assert.Len(t, cashier.Privileges, 5)
}
