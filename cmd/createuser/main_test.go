package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/yourusername/kv-session-auth/internal/auth"
	"github.com/yourusername/kv-session-auth/internal/storage"
)

func noPrompt() (string, error) {
	return "", errors.New("prompt should not be used")
}

func TestBuildUserRecord(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	key, credential, err := buildUserRecord("testuser", "password123", now)
	if err != nil {
		t.Fatalf("buildUserRecord error: %v", err)
	}
	if key != "users:testuser" {
		t.Fatalf("key = %q", key)
	}
	if !auth.VerifyPassword("password123", credential.PasswordHash) {
		t.Fatal("digest must verify with the login hasher")
	}
	if credential.CreatedAt != "2025-01-02T03:04:05.000Z" {
		t.Fatalf("CreatedAt = %v", credential.CreatedAt)
	}
}

func TestBuildUserRecordValidation(t *testing.T) {
	if _, _, err := buildUserRecord("", "pw", time.Now()); err == nil {
		t.Fatal("expected error for empty username")
	}
	if _, _, err := buildUserRecord(strings.Repeat("x", 65), "pw", time.Now()); err == nil {
		t.Fatal("expected error for long username")
	}
	if _, _, err := buildUserRecord("alice", "", time.Now()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestRunPrintsCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"testuser", "password123"}, &out, noPrompt); err != nil {
		t.Fatalf("run error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "redis-cli SET 'users:testuser' '{\"passwordHash\":\""+auth.HashPassword("password123")+"\"") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestRunPromptsForPassword(t *testing.T) {
	var out bytes.Buffer
	prompt := func() (string, error) { return "secret", nil }
	if err := run([]string{"alice"}, &out, prompt); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out.String(), auth.HashPassword("secret")) {
		t.Fatalf("output should contain digest of prompted password:\n%s", out.String())
	}
}

func TestRunRequiresUsername(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out, noPrompt); err == nil {
		t.Fatal("expected error without username")
	}
}

func TestRunApply(t *testing.T) {
	mr := miniredis.RunT(t)

	var out bytes.Buffer
	args := []string{"-apply", "-redis-url", "redis://" + mr.Addr() + "/0", "testuser", "password123"}
	if err := run(args, &out, noPrompt); err != nil {
		t.Fatalf("run error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	credential, err := storage.NewStore(rdb).GetUser(context.Background(), "testuser")
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if credential == nil || !auth.VerifyPassword("password123", credential.PasswordHash) {
		t.Fatalf("stored credential does not verify: %#v", credential)
	}
}

func TestShellQuote(t *testing.T) {
	if got := shellQuote(`it's`); got != `'it'\''s'` {
		t.Fatalf("shellQuote = %s", got)
	}
}
