package handler

import (
	"go-stock-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RoleHandler struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
	logger        *zap.Logger
}

func NewRoleHandler(roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository, log *zap.Logger) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo, privilegeRepo: privilegeRepo, logger: log}
}

// GetRoles returns all available roles with their default privileges
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list roles", err)
	}
	return c.JSON(roles)
}

// GetPrivileges lists every privilege code a user can be granted
// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privilegeRepo.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "list privileges", err)
	}
	return c.JSON(privileges)
}
