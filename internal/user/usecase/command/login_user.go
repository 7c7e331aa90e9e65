package command

import (
	"github.com/obeddx/notarichCafe-sub002/internal/user/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/auth"
)

// LoginUserCommand represents the command to login a staff account.
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command.
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler.
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle executes the login user command. Lookup and password failures
// return the same message so usernames cannot be probed.
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if cmd.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	user, err := h.repo.FindByUsername(cmd.Username)
	if err != nil {
		return nil, apperr.Validation("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.Validation("account is deactivated")
	}
	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, apperr.Validation("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperr.Persistence("generate token", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}
