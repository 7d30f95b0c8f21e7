package handler

import (
	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: log}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.CreateUser(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "create user", err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// UpdateUserPrivileges handles privilege assignment
// PUT /api/v1/users/:id/privileges
func (h *UserHandler) UpdateUserPrivileges(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return nil
	}

	var req struct {
		Privileges []string `json:"privileges"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateUserPrivileges(c.UserContext(), userID, req.Privileges, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update user privileges", err)
	}

	return c.JSON(fiber.Map{
		"message": "Privileges updated successfully",
		"data":    user,
	})
}

// GetUsers returns all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list users", err)
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return nil
	}

	user, err := h.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, "get user", err)
	}

	return c.JSON(user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return nil
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateUser(c.UserContext(), userID, &req, actor(c))
	if err != nil {
		return respondError(c, h.logger, "update user", err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return nil
	}

	if err := h.userService.DeleteUser(c.UserContext(), userID, actor(c)); err != nil {
		return respondError(c, h.logger, "delete user", err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
