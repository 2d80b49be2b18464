package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
)

func TestIssueAndAuthenticate(t *testing.T) {
	a := New(Config{Secret: "test-secret", Issuer: "nea"})
	token, err := a.Issue(authdomain.Actor{ID: 77, Role: authdomain.RoleFieldStaff}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	actor, err := a.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if actor.ID != 77 || actor.Role != authdomain.RoleFieldStaff {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	issuer := New(Config{Secret: "one", Issuer: "nea"})
	token, err := issuer.Issue(authdomain.Actor{ID: 1, Role: authdomain.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := New(Config{Secret: "two", Issuer: "nea"})
	if _, err := verifier.Authenticate(context.Background(), token); !errors.Is(err, authdomain.ErrInvalidCredential) {
		t.Fatalf("expected invalid credential, got %v", err)
	}
}

func TestAuthenticateExpired(t *testing.T) {
	a := New(Config{Secret: "s", Issuer: "nea"})
	past := time.Now().Add(-2 * time.Hour)
	a.now = func() time.Time { return past }
	token, err := a.Issue(authdomain.Actor{ID: 5, Role: authdomain.RoleCustomer}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	a.now = time.Now
	if _, err := a.Authenticate(context.Background(), token); !errors.Is(err, authdomain.ErrExpiredCredential) {
		t.Fatalf("expected expired credential, got %v", err)
	}
}

func TestIssueRejectsSystemRole(t *testing.T) {
	a := New(Config{Secret: "s"})
	if _, err := a.Issue(authdomain.Actor{ID: 1, Role: authdomain.RoleSystem}, time.Hour); !errors.Is(err, authdomain.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestAuthenticateEmpty(t *testing.T) {
	a := New(Config{Secret: "s"})
	if _, err := a.Authenticate(context.Background(), "  "); !errors.Is(err, authdomain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}
