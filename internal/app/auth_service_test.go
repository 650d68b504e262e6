package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quillpost/internal/model"
	"quillpost/internal/pkg/jwtutil"
	"quillpost/internal/repository"
	"quillpost/internal/testutil"
)

const testSecret = "test-secret"

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[tokenID] = ttl
	return nil
}

func newAuthService(t *testing.T, revoker TokenRevoker) (*AuthService, *repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(testutil.NewDB(t))
	return NewAuthService(users, revoker, testSecret, time.Hour), users
}

func validSignup() SignupInput {
	return SignupInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     " Grace@Example.com ",
		Password:  "cobol-rules",
		Country:   "US",
	}
}

func TestSignupHashesPasswordAndIssuesToken(t *testing.T) {
	svc, users := newAuthService(t, nil)
	ctx := context.Background()

	result, err := svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	stored, err := users.GetByEmail(ctx, "grace@example.com")
	if err != nil || stored == nil {
		t.Fatalf("stored user = %v, %v", stored, err)
	}
	if stored.PasswordHash == "cobol-rules" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if stored.Role != model.RoleMember {
		t.Fatalf("Role = %q, want member", stored.Role)
	}

	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != stored.ID || claims.Email != "grace@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, users := newAuthService(t, nil)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatal(err)
	}
	second := validSignup()
	second.Email = "GRACE@example.com"
	if _, err := svc.Signup(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("Signup() duplicate error = %v, want ErrEmailExists", err)
	}

	user, _ := users.GetByEmail(ctx, "grace@example.com")
	if user == nil || user.FirstName != "Grace" {
		t.Fatalf("original user changed: %+v", user)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newAuthService(t, nil)

	tests := map[string]func(*SignupInput){
		"missing first name": func(in *SignupInput) { in.FirstName = " " },
		"missing country":    func(in *SignupInput) { in.Country = "" },
		"bad email":          func(in *SignupInput) { in.Email = "not-an-email" },
		"short password":     func(in *SignupInput) { in.Password = "short" },
		"password over 72":   func(in *SignupInput) { in.Password = strings.Repeat("a", 100) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validSignup()
			mutate(&in)
			if _, err := svc.Signup(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Signup() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSignupAcceptsSeventyTwoBytePassword(t *testing.T) {
	svc, _ := newAuthService(t, nil)
	in := validSignup()
	in.Password = strings.Repeat("a", 72)
	if _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t, nil)
	ctx := context.Background()
	signed, err := svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: "cobol-rules"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	if err != nil || claims.UserID != signed.User.ID {
		t.Fatalf("login token claims = %+v, %v", claims, err)
	}

	for name, in := range map[string]LoginInput{
		"wrong password": {Email: "grace@example.com", Password: "cobol-rulez"},
		"unknown email":  {Email: "nobody@example.com", Password: "cobol-rules"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Login(ctx, in); !errors.Is(err, ErrInvalidCredential) {
				t.Fatalf("Login() error = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	disabled, _ := newAuthService(t, nil)
	if err := disabled.Logout(ctx, "jti", time.Now().Add(time.Hour)); !errors.Is(err, ErrRevocationUnavailable) {
		t.Fatalf("Logout() without revoker error = %v", err)
	}

	revoker := &fakeRevoker{}
	svc, _ := newAuthService(t, revoker)
	if err := svc.Logout(ctx, "jti", time.Now().Add(30*time.Minute)); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if ttl := revoker.revoked["jti"]; ttl <= 29*time.Minute || ttl > 30*time.Minute {
		t.Fatalf("revoked ttl = %v", ttl)
	}
	if err := svc.Logout(ctx, "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Logout() expired token error = %v", err)
	}
	if _, ok := revoker.revoked["old"]; ok {
		t.Fatal("expired tokens need no revocation entry")
	}
}

func TestPromoteToOwner(t *testing.T) {
	svc, users := newAuthService(t, nil)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatal(err)
	}

	if err := svc.PromoteToOwner(ctx, "GRACE@example.com"); err != nil {
		t.Fatalf("PromoteToOwner() error = %v", err)
	}
	if err := svc.PromoteToOwner(ctx, "grace@example.com"); err != nil {
		t.Fatalf("PromoteToOwner() twice error = %v", err)
	}
	user, _ := users.GetByEmail(ctx, "grace@example.com")
	if user.Role != model.RoleOwner {
		t.Fatalf("Role = %q", user.Role)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: "cobol-rules"})
	if err != nil {
		t.Fatal(err)
	}
	claims, _ := jwtutil.ParseToken(testSecret, result.Token)
	if claims.Role != model.RoleOwner {
		t.Fatalf("token role = %q, want owner", claims.Role)
	}

	if err := svc.PromoteToOwner(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("PromoteToOwner(missing) error = %v", err)
	}
}
