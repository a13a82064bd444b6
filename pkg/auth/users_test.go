package auth

import (
	"context"
	"testing"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

func TestUserStore_RegisterAndGet(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	if err := store.RegisterUser(ctx, User{Name: "ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	got, err := store.GetUser(ctx, "ada")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "ada@example.com")
	}
}

func TestUserStore_RegisterOverwrites(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	_ = store.RegisterUser(ctx, User{Name: "ada", Email: "old@example.com"})
	_ = store.RegisterUser(ctx, User{Name: "ada", Email: "new@example.com"})

	got, err := store.GetUser(ctx, "ada")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "new@example.com")
	}
}

func TestUserStore_RegisterEmptyName(t *testing.T) {
	store := NewUserStore()
	err := store.RegisterUser(context.Background(), User{Name: ""})
	if !apierrors.Is(err, apierrors.KindBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestUserStore_GetUnknown(t *testing.T) {
	store := NewUserStore()
	_, err := store.GetUser(context.Background(), "nobody")
	if !apierrors.Is(err, apierrors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
