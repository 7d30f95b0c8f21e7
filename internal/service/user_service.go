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

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	saleRepo      repository.SaleRepository
	logger        *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	saleRepo repository.SaleRepository,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		saleRepo:      saleRepo,
		logger:        log,
	}
}

func (s *userService) emailTaken(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return conflict("email %s already exists", email)
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.UserResponse, error) {
	// 1. Validate request
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Email must be unused
	if err := s.emailTaken(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	// 3. Role must exist
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, translate(err, "role")
	}

	// 4. Create user, privileges follow the role
	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &req.RoleID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.CreatedBy = actor.String()
	user.UpdatedBy = actor.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", role.Code), zap.String("actor", actor.String()))
	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error) {
	// 1. Validate request
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find existing user
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}

	// 3. Email change must not collide
	if err := s.emailTaken(ctx, req.Email, userID); err != nil {
		return nil, err
	}

	// 4. Role must exist
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, translate(err, "role")
	}
	roleChanged := user.RoleID == nil || *user.RoleID != req.RoleID

	// 5. Apply
	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &req.RoleID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.String()
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// 6. A new role resets privileges to the role defaults
	if roleChanged {
		if err := s.userRepo.UpdatePrivileges(ctx, userID, role.Privileges); err != nil {
			return nil, err
		}
	}

	return s.GetUserByID(ctx, userID)
}

// DeleteUser refuses to remove a user who has rung up sales: the sale history must keep its actor.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error {
	if userID == actor.ID {
		return validationError("you cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return translate(err, "user")
	}

	sales, err := s.saleRepo.Count(ctx, repository.SaleFilter{UserID: &userID})
	if err != nil {
		return err
	}
	if sales > 0 {
		return conflict("user has %d recorded sale(s); deactivate the account instead", sales)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return translate(err, "user")
	}
	s.logger.Info("user deleted", zap.String("user_id", userID.String()), zap.String("actor", actor.String()))
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.UserResponse, error) {
	// 1. Find user
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, translate(err, "user")
	}

	// 2. Every code must be known
	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, err
	}
	if len(privileges) != len(uniqueCodes(privilegeCodes)) {
		return nil, validationError("unknown privilege code in %v", privilegeCodes)
	}

	// 3. Replace
	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, err
	}

	s.logger.Info("user privileges updated",
		zap.String("user_id", userID.String()),
		zap.Strings("privileges", privilegeCodes),
		zap.String("actor", actor.String()),
	)
	return s.GetUserByID(ctx, userID)
}

func uniqueCodes(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	response := user.ToResponse()
	return &response, nil
}
