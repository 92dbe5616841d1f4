package service

import (
	"context"
	"errors"
	"testing"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/testutil"
)

func actorOf(u *model.User) Actor {
	return Actor{UserID: u.ID, Email: u.Email, Name: u.FullName(), Role: u.Role}
}

func TestUserService_Permissions(t *testing.T) {
	db := testutil.DB(t)
	svc := NewUserService(repository.NewUserRepo(db), logger.Nop())
	ctx := context.Background()

	admin := actorOf(testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin))
	staff := actorOf(testutil.SeedUser(t, db, "staff@example.com", model.RoleStaff))

	req := CreateUserRequest{FirstName: "New", LastName: "Hire", Email: "new@example.com", Password: "welcome1", Role: model.RoleStaff}
	if _, err := svc.CreateUser(ctx, staff, req); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("staff must not create users, got %v", err)
	}
	created, err := svc.CreateUser(ctx, admin, req)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := svc.CreateUser(ctx, admin, req); !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected duplicate email, got %v", err)
	}

	profile := UpdateProfileRequest{FirstName: "Renamed", LastName: "Staff", Email: "staff@example.com"}
	if _, err := svc.UpdateProfile(ctx, staff, created.ID, profile); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("staff must not edit others, got %v", err)
	}
	updated, err := svc.UpdateProfile(ctx, staff, staff.UserID, profile)
	if err != nil || updated.FirstName != "Renamed" {
		t.Fatalf("self update: %v %+v", err, updated)
	}
	profile.Email = "admin@example.com"
	if _, err := svc.UpdateProfile(ctx, staff, staff.UserID, profile); !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("taking another user's email should fail, got %v", err)
	}

	if _, err := svc.DeactivateUser(ctx, admin, admin.UserID); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("admin must not deactivate self, got %v", err)
	}
	resp, err := svc.DeactivateUser(ctx, admin, created.ID)
	if err != nil || resp.IsActive {
		t.Fatalf("deactivate: %v %+v", err, resp)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil || len(users) != 3 {
		t.Errorf("expected 3 users, got %d (%v)", len(users), err)
	}
}
