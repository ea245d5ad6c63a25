package user

import (
	"context"
	"errors"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, accessSecret, refreshSecret string) *Service {
	return &Service{repo: repo, accessSecret: accessSecret, refreshSecret: refreshSecret}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	taken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.accessSecret, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *u,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) RefreshToken(refreshToken string) (string, error) {
	access, _, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	return access, err
}
