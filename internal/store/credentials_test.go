package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestCredentials(t *testing.T, seed []SeedUser) (*Credentials, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	c, err := OpenCredentials(path, seed)
	if err != nil {
		t.Fatalf("OpenCredentials failed: %v", err)
	}
	return c, path
}

func TestCredentials_CreateAndVerify(t *testing.T) {
	t.Parallel()

	c, _ := openTestCredentials(t, nil)

	user, err := c.Create("Thomas", "shopping123", "Thomas")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if user.Username != "thomas" {
		t.Errorf("expected lowercased username, got %q", user.Username)
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.PasswordHash == "shopping123" {
		t.Error("password must not be stored in plaintext")
	}

	if !c.Verify("thomas", "shopping123") {
		t.Error("expected valid credentials to verify")
	}
	if !c.Verify("THOMAS", "shopping123") {
		t.Error("expected case-insensitive username lookup")
	}
	if c.Verify("thomas", "wrong") {
		t.Error("expected wrong password to fail")
	}
	if c.Verify("nobody", "shopping123") {
		t.Error("expected unknown username to fail")
	}
}

func TestCredentials_CreateValidation(t *testing.T) {
	t.Parallel()

	c, _ := openTestCredentials(t, nil)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "pw"},
		{"missing password", "user", ""},
		{"missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Create(tt.username, tt.password, "Name"); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCredentials_CreateConflict(t *testing.T) {
	t.Parallel()

	c, _ := openTestCredentials(t, nil)

	if _, err := c.Create("thomas", "pw1", "Thomas"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same username in different case still conflicts.
	if _, err := c.Create("Thomas", "pw2", "Other"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if c.Count() != 1 {
		t.Errorf("expected 1 user after conflict, got %d", c.Count())
	}
}

func TestCredentials_Find(t *testing.T) {
	t.Parallel()

	c, _ := openTestCredentials(t, nil)

	created, err := c.Create("sarah", "cooking456", "Sarah")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, ok := c.Find("SARAH")
	if !ok {
		t.Fatal("expected to find user")
	}
	if found.ID != created.ID {
		t.Errorf("ID mismatch: got %q want %q", found.ID, created.ID)
	}

	if _, ok := c.Find("missing"); ok {
		t.Error("expected lookup of unknown username to miss")
	}
}

func TestCredentials_PersistAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")

	c1, err := OpenCredentials(path, nil)
	if err != nil {
		t.Fatalf("OpenCredentials failed: %v", err)
	}
	created, err := c1.Create("thomas", "shopping123", "Thomas")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A fresh store on the same snapshot sees the account.
	c2, err := OpenCredentials(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if !c2.Verify("thomas", "shopping123") {
		t.Error("expected reloaded store to verify credentials")
	}
	found, ok := c2.Find("thomas")
	if !ok {
		t.Fatal("expected reloaded store to find user")
	}
	if found.ID != created.ID {
		t.Errorf("ID changed across reload: got %q want %q", found.ID, created.ID)
	}
}

func TestCredentials_SeedOnFirstRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")

	c1, err := OpenCredentials(path, DemoUsers())
	if err != nil {
		t.Fatalf("OpenCredentials failed: %v", err)
	}

	if c1.Count() != len(DemoUsers()) {
		t.Fatalf("expected %d seeded users, got %d", len(DemoUsers()), c1.Count())
	}
	if !c1.Verify("thomas", "shopping123") {
		t.Error("expected seeded demo account to verify")
	}

	// Reopening with a seed does not reseed an existing snapshot.
	if _, err := c1.Create("extra", "pw", "Extra"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	c2, err := OpenCredentials(path, DemoUsers())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if c2.Count() != len(DemoUsers())+1 {
		t.Errorf("expected snapshot to win over seed, got %d users", c2.Count())
	}
}
