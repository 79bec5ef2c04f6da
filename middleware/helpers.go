package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims, их же подписывает handlers.AuthHandler.
const (
	JWTClaimEmail = "email"
	JWTClaimRole  = "role"
)

var errNoClaims = errors.New("user claims not found in context or invalid type")

func GetUserEmailFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}

	emailClaim, ok := claims[JWTClaimEmail]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", JWTClaimEmail)
	}
	email, ok := emailClaim.(string)
	if !ok || email == "" {
		return "", fmt.Errorf("invalid '%s' claim: %v", JWTClaimEmail, emailClaim)
	}
	return email, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}

	roleClaim, ok := claims[JWTClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", JWTClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", JWTClaimRole, roleClaim)
	}

	role := models.UserRole(roleStr)

	switch role {
	case models.RoleAdmin, models.RoleViewer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
