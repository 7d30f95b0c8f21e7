package repository

import (
	"context"
	"errors"

	"go-stock-pos/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	ReplacePrivileges(ctx context.Context, role *model.Role, privileges []model.Privilege) error
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ReplacePrivileges(ctx context.Context, role *model.Role, privileges []model.Privilege) error {
	return r.db.WithContext(ctx).Model(role).Association("Privileges").Replace(privileges)
}

// SeedDefaults creates the default roles that don't exist yet.
func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	for _, defaultRole := range model.DefaultRoles {
		var existing model.Role
		err := r.db.WithContext(ctx).Where("code = ?", defaultRole.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role := defaultRole
			if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
