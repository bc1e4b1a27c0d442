package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, token, hash, secret string, ttl time.Duration) AuthService {
	t.Helper()
	return NewAuthService(newTestLogger(t), token, hash, secret, ttl)
}

func TestAuthServiceEnabled(t *testing.T) {
	cases := []struct {
		name  string
		token string
		hash  string
		want  bool
	}{
		{name: "nothing configured", token: "", hash: "", want: false},
		{name: "plain token", token: "secret-token", hash: "", want: true},
		{name: "hash only", token: "", hash: "$2a$10$fake", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(t, tc.token, tc.hash, "", time.Hour)
			if got := svc.Enabled(); got != tc.want {
				t.Fatalf("Enabled: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestVerifyTokenPlain(t *testing.T) {
	svc := newTestAuthService(t, "correct-horse", "", "", time.Hour)

	if !svc.VerifyToken("correct-horse") {
		t.Fatal("expected matching token to verify")
	}
	if svc.VerifyToken("battery-staple") {
		t.Fatal("expected mismatched token to fail")
	}
	if svc.VerifyToken("") {
		t.Fatal("expected empty token to fail")
	}
}

func TestVerifyTokenDisabled(t *testing.T) {
	svc := newTestAuthService(t, "", "", "", time.Hour)

	if svc.VerifyToken("anything") {
		t.Fatal("expected verification to fail when no credential is configured")
	}
}

func TestVerifyTokenBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-credential"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	svc := newTestAuthService(t, "plain-credential", string(hash), "", time.Hour)

	if !svc.VerifyToken("hashed-credential") {
		t.Fatal("expected token matching the hash to verify")
	}
	if svc.VerifyToken("plain-credential") {
		t.Fatal("expected the plain token to be ignored when a hash is configured")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	svc := newTestAuthService(t, "secret-token", "", "session-secret", time.Hour)

	session, err := svc.IssueSession()
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if session == "" {
		t.Fatal("expected a non-empty session token")
	}
	if !svc.VerifySession(session) {
		t.Fatal("expected issued session to verify")
	}
}

func TestVerifySessionRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService(t, "secret-token", "", "one-secret", time.Hour)
	verifier := newTestAuthService(t, "secret-token", "", "another-secret", time.Hour)

	session, err := issuer.IssueSession()
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if verifier.VerifySession(session) {
		t.Fatal("expected session signed with a different secret to fail")
	}
}

func TestVerifySessionRejectsExpired(t *testing.T) {
	svc := newTestAuthService(t, "secret-token", "", "session-secret", -time.Minute)

	session, err := svc.IssueSession()
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if svc.VerifySession(session) {
		t.Fatal("expected expired session to fail")
	}
}

func TestVerifySessionRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "secret-token", "", "session-secret", time.Hour)

	for _, bad := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if svc.VerifySession(bad) {
			t.Fatalf("expected %q to fail verification", bad)
		}
	}
}

func TestSessionSecretDefaultsToAdminToken(t *testing.T) {
	issuer := newTestAuthService(t, "secret-token", "", "", time.Hour)
	verifier := newTestAuthService(t, "secret-token", "", "secret-token", time.Hour)

	session, err := issuer.IssueSession()
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if !verifier.VerifySession(session) {
		t.Fatal("expected session secret to default to the admin token")
	}
}
