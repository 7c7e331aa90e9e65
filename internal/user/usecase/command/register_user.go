package command

import (
	"github.com/obeddx/notarichCafe-sub002/internal/user/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/auth"
)

// RegisterUserCommand represents the command to register a staff account.
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// RegisterUserHandler handles user registration command.
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler.
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command.
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if cmd.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}
	if cmd.FullName == "" {
		return nil, apperr.Validation("full name is required")
	}
	if cmd.Role == "" {
		cmd.Role = domain.RoleCashier
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, apperr.Validation("invalid role %q", cmd.Role)
	}

	if existing, _ := h.repo.FindByUsername(cmd.Username); existing != nil {
		return nil, apperr.Validation("username already exists")
	}
	if existing, _ := h.repo.FindByEmail(cmd.Email); existing != nil {
		return nil, apperr.Validation("email already exists")
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperr.Persistence("hash password", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: hashed,
		FullName: cmd.FullName,
		Role:     cmd.Role,
		IsActive: true,
	}
	if err := h.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
