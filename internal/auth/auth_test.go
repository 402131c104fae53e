package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type memCreds struct {
	mu    sync.Mutex
	users map[string]User
	fail  error
}

func (m *memCreds) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.users == nil {
		m.users = make(map[string]User)
	}
	if _, ok := m.users[u.Email]; ok {
		return ErrEmailInUse
	}
	m.users[u.Email] = u
	return nil
}

func (m *memCreds) UserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func newTestProvider(repo Credentials) *LocalProvider {
	p := NewLocalProvider(repo)
	p.cost = bcrypt.MinCost
	return p
}

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name string
		in   SignUpInput
		want error
	}{
		{"ok", SignUpInput{Name: "Ana", Email: "a@x.io", Password: "secret", Confirm: "secret"}, nil},
		{"empty name", SignUpInput{Email: "a@x.io", Password: "secret", Confirm: "secret"}, state.ErrEmptyName},
		{"empty email", SignUpInput{Name: "Ana", Password: "secret", Confirm: "secret"}, ErrEmptyEmail},
		{"short", SignUpInput{Name: "Ana", Email: "a@x.io", Password: "12345", Confirm: "12345"}, ErrPasswordTooShort},
		{"mismatch", SignUpInput{Name: "Ana", Email: "a@x.io", Password: "secret", Confirm: "secreT"}, ErrPasswordMismatch},
	}
	for _, tt := range tests {
		err := ValidateSignUp(tt.in)
		if tt.want == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if !state.IsValidation(err) {
			t.Errorf("%s: %v is not a validation error", tt.name, err)
		}
	}
}

func TestValidateSignIn(t *testing.T) {
	if err := ValidateSignIn(SignInInput{Email: "a@x.io", Password: "x"}); err != nil {
		t.Fatalf("ValidateSignIn: %v", err)
	}
	if err := ValidateSignIn(SignInInput{Password: "secret"}); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("err = %v, want ErrEmptyEmail", err)
	}
	err := ValidateSignIn(SignInInput{Email: "a@x.io"})
	if !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("err = %v, want ErrEmptyPassword", err)
	}
	if got := Message(err); got != MsgEmptyPassword {
		t.Fatalf("Message = %q, want %q", got, MsgEmptyPassword)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmailInUse, MsgEmailInUse},
		{fmt.Errorf("wrapped: %w", ErrWrongCredentials), MsgWrongCredentials},
		{&state.ValidationError{Field: "confirm", Err: ErrPasswordMismatch}, MsgPasswordMismatch},
		{&state.ValidationError{Field: "password", Err: ErrPasswordTooShort}, MsgPasswordTooShort},
		{&state.ValidationError{Field: "password", Err: ErrEmptyPassword}, MsgEmptyPassword},
		{&state.ValidationError{Field: "name", Err: state.ErrEmptyName}, "name: name is required"},
		{errors.New("dial tcp: connection refused"), MsgGeneric},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestLocalProviderSignUpSignIn(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(&memCreds{})

	u, err := p.SignUp(ctx, SignUpInput{Name: " Ana ", Email: " Ana@X.io", Password: "secret", Confirm: "secret"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.ID == "" || u.Email != "ana@x.io" || u.Name != "Ana" {
		t.Fatalf("user = %+v", u)
	}
	if string(u.PasswordHash) == "secret" {
		t.Fatal("password stored in clear")
	}

	_, err = p.SignUp(ctx, SignUpInput{Name: "Other", Email: "ana@x.io", Password: "secret", Confirm: "secret"})
	if Message(err) != MsgEmailInUse {
		t.Fatalf("duplicate sign-up message = %q, want %q", Message(err), MsgEmailInUse)
	}

	got, err := p.SignIn(ctx, SignInInput{Email: "ANA@x.io", Password: "secret"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("SignIn ID = %q, want %q", got.ID, u.ID)
	}

	for _, in := range []SignInInput{
		{Email: "ana@x.io", Password: "wrong!"},
		{Email: "nobody@x.io", Password: "secret"},
	} {
		if _, err := p.SignIn(ctx, in); Message(err) != MsgWrongCredentials {
			t.Errorf("SignIn(%s) message = %q, want %q", in.Email, Message(err), MsgWrongCredentials)
		}
	}
}

func TestLocalProviderStoreFailureIsGeneric(t *testing.T) {
	p := newTestProvider(&memCreds{fail: errors.New("disk full")})
	_, err := p.SignUp(context.Background(), SignUpInput{Name: "Ana", Email: "a@x.io", Password: "secret", Confirm: "secret"})
	if !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
	if Message(err) != MsgGeneric {
		t.Fatalf("Message = %q, want generic", Message(err))
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tk, err := NewTokens("s3cret", "fintrack", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := tk.Issue("user-1", "a@x.io")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tk.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@x.io" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokensRejects(t *testing.T) {
	tk, _ := NewTokens("s3cret", "fintrack", time.Hour)
	other, _ := NewTokens("different", "fintrack", time.Hour)
	foreign, _ := NewTokens("s3cret", "someone-else", time.Hour)

	good, _ := tk.Issue("u", "")
	wrongKey, _ := other.Issue("u", "")
	wrongIssuer, _ := foreign.Issue("u", "")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: "fintrack"}})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"alg none":     unsigned,
	} {
		if _, err := tk.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}

	tk.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := tk.Verify(good); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: err = %v, want ErrInvalidToken", err)
	}

	if _, err := NewTokens("", "x", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("empty secret err = %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != strings.ToLower("ana@example.com") {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
