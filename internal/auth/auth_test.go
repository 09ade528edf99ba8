package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/auth"
)

func newSvc() *auth.AuthService {
	return auth.NewAuthService("test-secret", time.Hour)
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	svc := newSvc()
	tok, err := svc.Issue("u-1", "alice", auth.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ident, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.SubjectID != "u-1" || ident.DisplayName != "alice" || ident.Role != auth.RoleUser {
		t.Fatalf("identity = %+v", ident)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := auth.NewAuthService("test-secret", -time.Minute)
	tok, err := svc.Issue("u-1", "alice", auth.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newSvc().Verify(tok); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("expired token: err = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := auth.NewAuthService("other-secret", time.Hour).Issue("u-1", "alice", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newSvc().Verify(tok); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("forged token: err = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := newSvc().Verify(tok); !errors.Is(err, auth.ErrInvalidCredential) {
			t.Fatalf("token %q: err = %v, want ErrInvalidCredential", tok, err)
		}
	}
}

func TestRequireAuthenticatedHeaderShape(t *testing.T) {
	svc := newSvc()
	tok, _ := svc.Issue("u-1", "alice", auth.RoleUser)

	if _, err := svc.RequireAuthenticated(""); !errors.Is(err, auth.ErrMissingCredential) {
		t.Fatalf("empty header: err = %v", err)
	}
	if _, err := svc.RequireAuthenticated(tok); !errors.Is(err, auth.ErrMissingCredential) {
		t.Fatalf("bare token without scheme: err = %v", err)
	}
	if _, err := svc.RequireAuthenticated("Basic " + tok); !errors.Is(err, auth.ErrMissingCredential) {
		t.Fatalf("wrong scheme: err = %v", err)
	}
	if _, err := svc.RequireAuthenticated("Bearer " + tok); err != nil {
		t.Fatalf("well-formed header rejected: %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	svc := newSvc()
	userTok, _ := svc.Issue("u-1", "alice", auth.RoleUser)
	adminTok, _ := svc.Issue("a-1", "root", auth.RoleAdmin)

	if _, err := svc.RequireAdmin(""); !errors.Is(err, auth.ErrMissingCredential) {
		t.Fatalf("missing token: err = %v, want ErrMissingCredential", err)
	}
	if _, err := svc.RequireAdmin("Bearer " + userTok); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("non-admin token: err = %v, want ErrForbidden", err)
	}
	ident, err := svc.RequireAdmin("Bearer " + adminTok)
	if err != nil {
		t.Fatalf("admin token rejected: %v", err)
	}
	if ident.SubjectID != "a-1" || !ident.IsAdmin() {
		t.Fatalf("identity = %+v", ident)
	}
}
