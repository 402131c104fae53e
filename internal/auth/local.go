package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an account known to the local identity provider.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials persists local accounts. CreateUser returns ErrEmailInUse for
// a taken address; UserByEmail returns nil, nil when there is no such user.
type Credentials interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
}

// Provider authenticates users and yields their opaque id.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (User, error)
	SignIn(ctx context.Context, in SignInInput) (User, error)
}

// LocalProvider keeps bcrypt-hashed passwords in a Credentials store.
type LocalProvider struct {
	repo Credentials
	cost int
	now  func() time.Time
}

// NewLocalProvider returns a provider over repo.
func NewLocalProvider(repo Credentials) *LocalProvider {
	return &LocalProvider{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
}

// SignUp validates the form and registers a new user.
func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	if err := ValidateSignUp(in); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	return u, nil
}

// SignIn checks the password of an existing user. Unknown addresses and
// wrong passwords are indistinguishable to the caller.
func (p *LocalProvider) SignIn(ctx context.Context, in SignInInput) (User, error) {
	if err := ValidateSignIn(in); err != nil {
		return User{}, err
	}
	u, err := p.repo.UserByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	if u == nil {
		return User{}, ErrWrongCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)); err != nil {
		return User{}, ErrWrongCredentials
	}
	return *u, nil
}
