package service

import (
	"context"
	"errors"
	"strings"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DirectoryService manages the reference data a sale or product points at.
type DirectoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category, actor Actor) error
	UpdateCategory(ctx context.Context, id uuid.UUID, req *model.Category, actor Actor) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, supplier *model.Supplier, actor Actor) error
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *model.Supplier, actor Actor) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error

	ListCustomers(ctx context.Context, search string) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	CreateCustomer(ctx context.Context, customer *model.Customer, actor Actor) error
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *model.Customer, actor Actor) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type directoryService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
}

func NewDirectoryService(
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	log *zap.Logger,
) DirectoryService {
	return &directoryService{
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		logger:       log,
	}
}

// uniqueName fails with ErrConflict when lookup finds a different record under the same name.
func uniqueName(kind, name string, self uuid.UUID, lookup func() (uuid.UUID, error)) error {
	id, err := lookup()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case id != self:
		return conflict("%s '%s' already exists", kind, name)
	}
	return nil
}

// ===== Categories =====

func (s *directoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *directoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	return category, nil
}

func (s *directoryService) checkCategory(ctx context.Context, c *model.Category, self uuid.UUID) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := validate(c); err != nil {
		return err
	}
	return uniqueName("category", c.Name, self, func() (uuid.UUID, error) {
		existing, err := s.categoryRepo.FindByName(ctx, c.Name)
		if err != nil {
			return uuid.Nil, err
		}
		return existing.ID, nil
	})
}

func (s *directoryService) CreateCategory(ctx context.Context, category *model.Category, actor Actor) error {
	category.ID = uuid.Nil
	if err := s.checkCategory(ctx, category, uuid.Nil); err != nil {
		return err
	}
	category.CreatedBy = actor.String()
	category.UpdatedBy = actor.String()
	return s.categoryRepo.Create(ctx, category)
}

func (s *directoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *model.Category, actor Actor) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	if err := s.checkCategory(ctx, req, id); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.UpdatedBy = actor.String()
	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *directoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return translate(s.categoryRepo.Delete(ctx, id), "category")
}

// ===== Suppliers =====

func (s *directoryService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

func (s *directoryService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "supplier")
	}
	return supplier, nil
}

func (s *directoryService) checkSupplier(ctx context.Context, sup *model.Supplier, self uuid.UUID) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if err := validate(sup); err != nil {
		return err
	}
	return uniqueName("supplier", sup.Name, self, func() (uuid.UUID, error) {
		existing, err := s.supplierRepo.FindByName(ctx, sup.Name)
		if err != nil {
			return uuid.Nil, err
		}
		return existing.ID, nil
	})
}

func (s *directoryService) CreateSupplier(ctx context.Context, supplier *model.Supplier, actor Actor) error {
	supplier.ID = uuid.Nil
	if err := s.checkSupplier(ctx, supplier, uuid.Nil); err != nil {
		return err
	}
	supplier.CreatedBy = actor.String()
	supplier.UpdatedBy = actor.String()
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *directoryService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *model.Supplier, actor Actor) (*model.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "supplier")
	}
	if err := s.checkSupplier(ctx, req, id); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.UpdatedBy = actor.String()
	if err := s.supplierRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *directoryService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return translate(s.supplierRepo.Delete(ctx, id), "supplier")
}

// ===== Customers =====

func (s *directoryService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	if search = strings.TrimSpace(search); search != "" {
		return s.customerRepo.Search(ctx, search)
	}
	return s.customerRepo.FindAll(ctx)
}

func (s *directoryService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	return customer, nil
}

func (s *directoryService) CreateCustomer(ctx context.Context, customer *model.Customer, actor Actor) error {
	customer.ID = uuid.Nil
	customer.Name = strings.TrimSpace(customer.Name)
	if err := validate(customer); err != nil {
		return err
	}
	customer.CreatedBy = actor.String()
	customer.UpdatedBy = actor.String()
	return s.customerRepo.Create(ctx, customer)
}

func (s *directoryService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *model.Customer, actor Actor) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.UpdatedBy = actor.String()
	if err := s.customerRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCustomer removes the customer; past sales keep their totals with customer_id cleared.
func (s *directoryService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return translate(err, "customer")
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}
