package repository

import (
	"context"
	"testing"

	"quillpost/internal/model"
	"quillpost/internal/testutil"
)

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		ID:           "u1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Country:      "UK",
		Role:         model.RoleMember,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	if err != nil || byEmail == nil || byEmail.ID != "u1" {
		t.Fatalf("GetByEmail() = %+v, %v", byEmail, err)
	}
	byID, err := repo.GetByID(ctx, "u1")
	if err != nil || byID == nil || byID.Email != "ada@example.com" {
		t.Fatalf("GetByID() = %+v, %v", byID, err)
	}
	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("GetByEmail(missing) = %+v, %v", missing, err)
	}

	dup := *user
	dup.ID = "u2"
	if err := repo.Create(ctx, &dup); err == nil {
		t.Fatal("Create() with duplicate email should fail")
	}
	var count int64
	db.Model(&model.User{}).Where("email = ?", "ada@example.com").Count(&count)
	if count != 1 {
		t.Fatalf("users with email = %d, want 1", count)
	}
}

func TestUserRepositoryUpdateRole(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	if err := repo.Create(ctx, &model.User{ID: "u1", Email: "o@example.com", PasswordHash: "h", Role: model.RoleMember}); err != nil {
		t.Fatal(err)
	}

	found, err := repo.UpdateRole(ctx, "o@example.com", model.RoleOwner)
	if err != nil || !found {
		t.Fatalf("UpdateRole() = %v, %v", found, err)
	}
	user, _ := repo.GetByID(ctx, "u1")
	if user.Role != model.RoleOwner {
		t.Fatalf("Role = %q", user.Role)
	}

	found, err = repo.UpdateRole(ctx, "ghost@example.com", model.RoleOwner)
	if err != nil || found {
		t.Fatalf("UpdateRole(missing) = %v, %v", found, err)
	}
}
