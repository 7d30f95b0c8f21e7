package handler

import (
	"go-stock-pos/internal/model"
	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DirectoryHandler serves categories, suppliers and customers.
type DirectoryHandler struct {
	service service.DirectoryService
	logger  *zap.Logger
}

func NewDirectoryHandler(s service.DirectoryService, log *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{service: s, logger: log}
}

// ===== Categories =====

func (h *DirectoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list categories", err)
	}
	return c.JSON(categories)
}

func (h *DirectoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return nil
	}
	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "get category", err)
	}
	return c.JSON(category)
}

func (h *DirectoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateCategory(c.UserContext(), &category, actor(c)); err != nil {
		return respondError(c, h.logger, "create category", err)
	}
	return c.Status(201).JSON(category)
}

func (h *DirectoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return nil
	}
	var req model.Category
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	category, err := h.service.UpdateCategory(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update category", err)
	}
	return c.JSON(category)
}

func (h *DirectoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "category")
	if !ok {
		return nil
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "delete category", err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// ===== Suppliers =====

func (h *DirectoryHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list suppliers", err)
	}
	return c.JSON(suppliers)
}

func (h *DirectoryHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return nil
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "get supplier", err)
	}
	return c.JSON(supplier)
}

func (h *DirectoryHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateSupplier(c.UserContext(), &supplier, actor(c)); err != nil {
		return respondError(c, h.logger, "create supplier", err)
	}
	return c.Status(201).JSON(supplier)
}

func (h *DirectoryHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return nil
	}
	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update supplier", err)
	}
	return c.JSON(supplier)
}

func (h *DirectoryHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "supplier")
	if !ok {
		return nil
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "delete supplier", err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted successfully"})
}

// ===== Customers =====

// GetCustomers lists customers, optionally matching ?search=
func (h *DirectoryHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers(c.UserContext(), c.Query("search"))
	if err != nil {
		return respondError(c, h.logger, "list customers", err)
	}
	return c.JSON(customers)
}

func (h *DirectoryHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "customer")
	if !ok {
		return nil
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "get customer", err)
	}
	return c.JSON(customer)
}

func (h *DirectoryHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateCustomer(c.UserContext(), &customer, actor(c)); err != nil {
		return respondError(c, h.logger, "create customer", err)
	}
	return c.Status(201).JSON(customer)
}

func (h *DirectoryHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "customer")
	if !ok {
		return nil
	}
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update customer", err)
	}
	return c.JSON(customer)
}

func (h *DirectoryHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id", "customer")
	if !ok {
		return nil
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "delete customer", err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}
