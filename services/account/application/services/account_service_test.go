package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ghuser/gamercart/pkg/logger"
	accountdomain "github.com/ghuser/gamercart/services/account/domain"
	"github.com/ghuser/gamercart/services/account/domain/models"
)

type fakeRepo struct {
	users map[string]*models.User
	err   error
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[models.NormalizeEmail(email)]
	if !ok {
		return nil, accountdomain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.Email]; ok {
		return accountdomain.ErrEmailTaken
	}
	u.ID = int64(len(f.users) + 1)
	f.users[u.Email] = u
	return nil
}

func newService() *AccountService {
	s := NewAccountService(&fakeRepo{users: map[string]*models.User{}}, logger.Discard())
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterThenAuthenticate(t *testing.T) {
	s := newService()
	ctx := context.Background()

	u, err := s.Register(ctx, "Ana", "Ana@Example.com", "secreto123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.PasswordHash == "secreto123" || u.Role != models.RoleCustomer {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := s.Authenticate(ctx, "ana@example.com", "secreto123")
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: %+v, %v", got, err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newService()
	ctx := context.Background()
	if _, err := s.Register(ctx, "Ana", "ana@example.com", "secreto123"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Register(ctx, "Otra", "ANA@example.com", "otro12345")
	if !errors.Is(err, accountdomain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_InvalidAccount(t *testing.T) {
	_, err := newService().Register(context.Background(), "Ana", "no-email", "secreto123")
	if !errors.Is(err, accountdomain.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	s := newService()
	ctx := context.Background()
	if _, err := s.Register(ctx, "Ana", "ana@example.com", "secreto123"); err != nil {
		t.Fatal(err)
	}

	for name, email := range map[string]string{"wrong password": "ana@example.com", "unknown email": "x@example.com"} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, email, "incorrecta")
			if !errors.Is(err, accountdomain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthenticate_StoreErrorIsNotCredentials(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewAccountService(&fakeRepo{err: boom}, logger.Discard())
	_, err := s.Authenticate(context.Background(), "ana@example.com", "x")
	if !errors.Is(err, boom) || errors.Is(err, accountdomain.ErrInvalidCredentials) {
		t.Fatalf("expected store error, got %v", err)
	}
}
