package repository

import (
	"context"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
	UpdatePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error
	UpdateSession(ctx context.Context, userID uuid.UUID, tokenVersion string) error
	UpdateLastSeen(ctx context.Context, userID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role").Preload("Privileges").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role").Preload("Privileges").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Role").Preload("Privileges").Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update saves profile columns only; privileges go through UpdatePrivileges.
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("email", "password", "full_name", "phone_number", "role_id", "is_active", "updated_by", "updated_at").
		Updates(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := model.User{BaseModel: model.BaseModel{ID: id}}
		if err := tx.Model(&user).Association("Privileges").Clear(); err != nil {
			return err
		}
		return deleteByID(tx, &model.User{}, id)
	})
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdatePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&user).Association("Privileges").Replace(privileges)
}

// UpdateSession rotates the token version and marks the user as seen in one statement.
func (r *userRepo) UpdateSession(ctx context.Context, userID uuid.UUID, tokenVersion string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"token_version": tokenVersion,
		"last_seen_at":  r.db.NowFunc(),
	}).Error
}

func (r *userRepo) UpdateLastSeen(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_seen_at", r.db.NowFunc()).Error
}
