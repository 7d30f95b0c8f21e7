package repository

import (
	"context"
	"strings"

	"go-stock-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string) ([]model.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) FindAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Search matches a name fragment or an exact email/phone, for the checkout lookup box.
func (r *customerRepo) Search(ctx context.Context, term string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR email = ? OR phone = ?", "%"+strings.ToLower(term)+"%", term, term).
		Order("name ASC").
		Limit(50).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Customer{}, id)
}
