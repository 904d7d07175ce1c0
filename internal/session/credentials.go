package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the persisted identity of the authenticated company.
// The token is the opaque bearer credential the backend issued at login;
// everything else is what the login response reported about the account.
type Credentials struct {
	Token        string `toml:"token"`
	CompanyID    int64  `toml:"company_id"`
	CompanyName  string `toml:"company_name"`
	CompanyEmail string `toml:"company_email"`
}

// tokenClaims is the subset of the backend's JWT payload the client cares
// about. The client holds no verification key, so claims are only used to
// recover the company id from credential files written before the id field
// existed.
type tokenClaims struct {
	CompanyID any `json:"company_id"`
	jwt.RegisteredClaims
}

// Store loads, saves and purges the credential file for one profile.
// It is the single owner of bearer-token state: every API-calling component
// reads the token through it instead of ambient globals.
type Store struct {
	mu    sync.RWMutex
	path  string
	creds *Credentials
}

// NewStore creates a credential store for the given profile.
func NewStore(profile string) *Store {
	return &Store{path: CredentialsPath(profile)}
}

// NewStoreAt creates a credential store backed by an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the credential file. Returns (nil, nil) when no credential
// is stored.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Credentials
	if _, err := toml.DecodeFile(s.path, &c); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if c.Token == "" {
		return nil, nil
	}
	if c.CompanyID == 0 {
		c.CompanyID = companyIDFromToken(c.Token)
	}
	s.creds = &c
	return &c, nil
}

// Save persists the credentials and makes them current.
func (s *Store) Save(c *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(c)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	if encErr != nil {
		return encErr
	}
	s.creds = c
	return nil
}

// Current returns the in-memory credentials, or nil when logged out.
func (s *Store) Current() *Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Token returns the bearer token, or empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// CompanyID returns the authenticated company id, or 0 when logged out.
func (s *Store) CompanyID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return 0
	}
	return s.creds.CompanyID
}

// Purge removes the credential file and clears in-memory state. Called on
// logout and whenever the backend rejects the token.
func (s *Store) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// companyIDFromToken extracts the company id claim without verifying the
// signature. Best effort: returns 0 on any parse failure.
func companyIDFromToken(token string) int64 {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return 0
	}
	switch v := claims.CompanyID.(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		if claims.Subject != "" {
			n, _ := strconv.ParseInt(claims.Subject, 10, 64)
			return n
		}
	}
	return 0
}
