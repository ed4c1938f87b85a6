package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conventionlist/internal/domain"
)

const tokenExpiry = 24 * time.Hour

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	contextTimeout time.Duration
}

func NewUserService(userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		hasher:         hasher,
		issuer:         issuer,
		contextTimeout: timeout,
	}
}

func (s *userService) SignUp(ctx context.Context, email, password, name, lastName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(email, name, lastName, now, now)
	if err := s.userRepo.Create(ctx, user, domain.Credentials{Hash: hash, Salt: salt}); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, fmt.Errorf("assign default role: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	creds, err := s.userRepo.GetCredentials(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("get credentials: %w", err)
	}
	if err := s.hasher.Compare(creds.Hash, creds.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("list roles: %w", err)
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}

	token, err := s.issuer.Issue(user.ID, user.Email, codes, tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
