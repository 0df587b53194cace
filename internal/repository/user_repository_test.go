package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/mouradf/it-asset-tracker/internal/utils"
)

const testBcryptCost = 4 // minimum cost keeps the suite fast

func TestUserCreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u := User{FullName: "Mourad F", Email: "Mourad@Example.COM", Username: "mourad_f"}
	if err := repo.Create(ctx, &u, "s3cretpw", testBcryptCost); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if u.Email != "mourad@example.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if u.Role != "User" {
		t.Fatalf("expected default role, got %q", u.Role)
	}
	if !utils.VerifyPassword(u.PasswordHash, "s3cretpw") {
		t.Fatalf("stored hash does not verify")
	}

	byEmail, err := repo.GetByIdentifier(ctx, "MOURAD@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Fatalf("email lookup returned wrong user")
	}
	byName, err := repo.GetByIdentifier(ctx, "mourad_f")
	if err != nil {
		t.Fatalf("lookup by username: %v", err)
	}
	if byName.ID != u.ID {
		t.Fatalf("username lookup returned wrong user")
	}
	if _, err := repo.GetByIdentifier(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDuplicateIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	first := User{FullName: "A", Email: "a@example.com", Username: "user_one"}
	if err := repo.Create(ctx, &first, "password1", testBcryptCost); err != nil {
		t.Fatalf("create: %v", err)
	}

	dupEmail := User{FullName: "B", Email: "A@Example.com", Username: "user_two"}
	if err := repo.Create(ctx, &dupEmail, "password2", testBcryptCost); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	dupName := User{FullName: "C", Email: "c@example.com", Username: "user_one"}
	if err := repo.Create(ctx, &dupName, "password3", testBcryptCost); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserTouchLastLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u := User{FullName: "D", Email: "d@example.com", Username: "user_four"}
	if err := repo.Create(ctx, &u, "password4", testBcryptCost); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.TouchLastLogin(ctx, u.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastLogin == nil || *got.LastLogin == "" {
		t.Fatalf("expected last_login to be stamped")
	}
}
