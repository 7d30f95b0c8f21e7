// Package seed installs the default privileges, roles and bootstrap administrator.
package seed

import (
	"context"
	"errors"
	"strings"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/pkg/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run is idempotent: existing privileges, role assignments and the admin account are left alone.
func Run(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Privileges, then roles
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	// 2. Roles without privileges get their defaults
	all, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, code := range []string{model.RoleMasterAdmin, model.RoleAdmin, model.RoleCashier} {
		role, err := roleRepo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if len(role.Privileges) > 0 {
			continue
		}
		privileges := model.DefaultPrivilegesFor(code, all)
		if err := roleRepo.ReplacePrivileges(ctx, role, privileges); err != nil {
			return err
		}
		log.Info("role privileges assigned", zap.String("role", code), zap.Int("privileges", len(privileges)))
	}

	// 3. Bootstrap MASTER_ADMIN account
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	_, err = userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	masterRole, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:      email,
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Info("admin user created", zap.String("email", email), zap.String("role", model.RoleMasterAdmin))
	return nil
}
