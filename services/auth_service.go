package services

import (
	"context"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/utils"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

// authService проверяет единственную учетную запись администратора из конфигурации.
type authService struct {
	admin *models.User
}

// NewAuthService returns a service that rejects every login when email or hash is empty.
func NewAuthService(adminEmail, adminPasswordHash string) AuthService {
	s := &authService{}
	if adminEmail != "" && adminPasswordHash != "" {
		s.admin = &models.User{
			Email:        strings.ToLower(strings.TrimSpace(adminEmail)),
			Role:         models.RoleAdmin,
			PasswordHash: adminPasswordHash,
		}
	}
	return s
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	if s.admin == nil {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(input.Email)) != s.admin.Email {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, s.admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &models.User{Email: s.admin.Email, Role: s.admin.Role}, nil
}
