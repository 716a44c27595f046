package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/model"
	"github.com/librisys/librisys/pkg/auth"
)

const tokenTTL = 24 * time.Hour

// Signup registers a new student. Elevated roles are provisioned out of
// band, never through the public endpoint.
func (s *Service) Signup(ctx context.Context, req model.SignupRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	user, err := s.repo.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     auth.RoleStudent,
	})
	if err != nil {
		return model.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	if req.ExpectedRole != "" && string(user.Role) != req.ExpectedRole {
		return model.AuthResponse{}, errs.ErrRoleMismatch
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Profile.UserID = user.ID
	claims.Profile.Role = user.Role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "sign token")
	}

	return model.AuthResponse{
		AccessToken: tokenString,
		ExpiresIn:   int(tokenTTL.Seconds()),
		Role:        user.Role,
	}, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (model.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	user.Password = ""
	return user, nil
}
