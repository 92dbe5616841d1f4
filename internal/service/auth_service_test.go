package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/testutil"
	"aroma-inventory/pkg/jwt"

	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	svc := NewAuthService(repository.NewUserRepo(db), jwt.NewManager("test-secret", time.Hour), logger.Nop())
	return svc, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{FirstName: "Elira", LastName: "Kola", Email: "Elira@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.RoleStaff || user.Email != "elira@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	_, err = svc.Register(ctx, RegisterRequest{FirstName: "Other", LastName: "Kola", Email: "elira@example.com", Password: "secret1"})
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected duplicate email, got %v", err)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "elira@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == "" || login.User.LastLoginAt == nil {
		t.Errorf("unexpected login response: %+v", login)
	}

	actor, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if actor.UserID != user.ID || actor.Name != "Elira Kola" {
		t.Errorf("unexpected actor: %+v", actor)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{FirstName: "Elira", LastName: "Kola", Email: "elira@example.com", Password: strings.Repeat("x", 80)})
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}

	user := testutil.SeedUser(t, db, "arben@example.com", model.RoleStaff)
	actor := Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
	err = svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: "password1", NewPassword: strings.Repeat("y", 80)})
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument on change password, got %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	inactive := testutil.SeedUser(t, db, "gone@example.com", model.RoleStaff)
	inactive.Deactivate("system")
	if err := db.Save(inactive).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	testutil.SeedUser(t, db, "here@example.com", model.RoleStaff)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: "password1"}},
		{"wrong password", LoginRequest{Email: "here@example.com", Password: "nope12"}},
		{"inactive", LoginRequest{Email: "gone@example.com", Password: "password1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "kim@example.com", model.RoleAdmin)

	login, err := svc.Login(ctx, LoginRequest{Email: "kim@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	actor, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := svc.Logout(ctx, *actor); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, login.Token); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("token should be revoked after logout, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "pat@example.com", model.RoleStaff)

	login, _ := svc.Login(ctx, LoginRequest{Email: "pat@example.com", Password: "password1"})
	actor, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	err = svc.ChangePassword(ctx, *actor, ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpass1"})
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument for wrong password, got %v", err)
	}

	if err := svc.ChangePassword(ctx, *actor, ChangePasswordRequest{OldPassword: "password1", NewPassword: "newpass1"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, login.Token); err == nil {
		t.Error("old token should stop working after a password change")
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "pat@example.com", Password: "newpass1"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _ := newAuthFixture(t)
	for _, token := range []string{"", "abc.def.ghi"} {
		if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("token %q: expected unauthorized, got %v", token, err)
		}
	}
}
