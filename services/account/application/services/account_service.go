package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ghuser/gamercart/pkg/logger"
	accountdomain "github.com/ghuser/gamercart/services/account/domain"
	"github.com/ghuser/gamercart/services/account/domain/models"
	"github.com/ghuser/gamercart/services/account/domain/repositories"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gamercart-dummy-password"), bcrypt.DefaultCost)

// AccountService registers and authenticates users.
type AccountService struct {
	repo repositories.UserRepository
	cost int
	log  logger.Logger
}

// NewAccountService returns an AccountService hashing with bcrypt.DefaultCost.
func NewAccountService(repo repositories.UserRepository, log logger.Logger) *AccountService {
	return &AccountService{repo: repo, cost: bcrypt.DefaultCost, log: log}
}

// Register creates a customer account.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", accountdomain.ErrInvalidAccount, err)
	}
	u, err := models.NewUser(name, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", accountdomain.ErrInvalidAccount, err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate returns the user when email and password match, and
// ErrInvalidCredentials otherwise.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accountdomain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, accountdomain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.InfoContext(ctx, "failed login", "user_id", u.ID)
		return nil, accountdomain.ErrInvalidCredentials
	}
	return u, nil
}
