package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/pantrybox/pantrybox/internal/auth"
	"github.com/pantrybox/pantrybox/internal/model"
)

// SeedUser is a demo account created on first run when no credential
// snapshot exists. Seed passwords are documented, not secret: seeding
// must stay disabled in production.
type SeedUser struct {
	Username string
	Password string
	Name     string
}

// DemoUsers returns the documented demo accounts.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{Username: "thomas", Password: "shopping123", Name: "Thomas"},
		{Username: "sarah", Password: "cooking456", Name: "Sarah"},
	}
}

// Credentials is the credential store: a username-keyed table of
// account records persisted as a single JSON snapshot. The mutex holds
// each read-modify-persist as one critical section, so concurrent
// creates cannot lose writes to each other.
type Credentials struct {
	mu    sync.Mutex
	path  string
	users map[string]*model.User // keyed by lowercased username
}

// OpenCredentials loads the snapshot at path. When no snapshot exists
// yet, the store is seeded with the given accounts (pass nil to start
// empty) and the seeded snapshot is written immediately.
func OpenCredentials(path string, seed []SeedUser) (*Credentials, error) {
	c := &Credentials{
		path:  path,
		users: make(map[string]*model.User),
	}

	found, err := loadSnapshot(path, &c.users)
	if err != nil {
		return nil, err
	}
	if found {
		return c, nil
	}

	for _, s := range seed {
		hash, err := auth.HashPassword(s.Password)
		if err != nil {
			return nil, fmt.Errorf("seed user %q: %w", s.Username, err)
		}
		username := strings.ToLower(s.Username)
		c.users[username] = &model.User{
			ID:           newUserID(),
			Username:     username,
			PasswordHash: hash,
			Name:         s.Name,
		}
	}

	if err := saveSnapshot(path, c.users); err != nil {
		return nil, err
	}

	return c, nil
}

// Find looks up a user by username, case-insensitively.
func (c *Credentials) Find(username string) (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.users[strings.ToLower(username)]
	if !ok {
		return nil, false
	}

	clone := *u
	return &clone, true
}

// Create registers a new account with a bcrypt-hashed password and
// persists the store before returning. The username is lowercased and
// must be unique.
func (c *Credentials) Create(username, password, name string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := c.users[key]; exists {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           newUserID(),
		Username:     key,
		PasswordHash: hash,
		Name:         name,
	}

	c.users[key] = user
	if err := saveSnapshot(c.path, c.users); err != nil {
		delete(c.users, key)
		return nil, err
	}

	clone := *user
	return &clone, nil
}

// Verify reports whether the username and password match a stored
// account. An unknown username and a wrong password are
// indistinguishable to the caller.
func (c *Credentials) Verify(username, password string) bool {
	c.mu.Lock()
	u, ok := c.users[strings.ToLower(username)]
	c.mu.Unlock()

	if !ok {
		return false
	}
	return auth.VerifyPassword(password, u.PasswordHash)
}

// Count returns the number of registered accounts.
func (c *Credentials) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}

// newUserID generates a lowercase unique user ID.
func newUserID() string {
	return strings.ToLower(ulid.Make().String())
}
