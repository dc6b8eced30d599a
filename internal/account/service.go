package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/auth"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/config"
)

var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

type Service struct {
	repo    *Repo
	authCfg config.AuthConfig
}

func NewService(repo *Repo, authCfg config.AuthConfig) *Service {
	return &Service{repo: repo, authCfg: authCfg}
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Phone    string
	Email    string
	Roles    []string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service repo is nil")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("username/password required")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username already exists")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password, salt)
	if err != nil {
		return nil, err
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{"agent"}
	}
	a := &Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Roles:        RolesJoin(roles),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Account     *Account
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service repo is nil")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.repo.FindByUsername(ctx, username)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, a.PasswordSalt, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := auth.GenerateAccessToken(s.authCfg, a.ID, a.RolesSlice(), 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, Account: a}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service repo is nil")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]Account, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service repo is nil")
	}
	return s.repo.List(ctx, offset, limit)
}
