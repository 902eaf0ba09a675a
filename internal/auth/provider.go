package auth

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role the API grants access to
const RoleAdmin = "admin"

// Default admin identity used when no override is configured
const (
	DefaultAdminEmail        = "admin@kuna.com"
	DefaultAdminName         = "Admin User"
	DefaultAdminPasswordHash = "$2b$12$V60a1bf2Z79FQ04mIohsDObKkJtIYviC8ppnI3GZGaU2CPoYPUzcm"
)

type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Credential is an identity plus its bcrypt password hash
type Credential struct {
	Identity
	PasswordHash []byte
}

// IdentityProvider resolves login emails to credentials
type IdentityProvider interface {
	Lookup(email string) (*Credential, bool)
}

// StaticProvider serves a fixed credential table. Emails match exactly.
type StaticProvider struct {
	credentials map[string]Credential
	decoy       []byte
}

// NewStaticProvider builds a provider holding exactly one admin credential
func NewStaticProvider(email, name, passwordHash string) *StaticProvider {
	email = strings.TrimSpace(email)
	return &StaticProvider{
		credentials: map[string]Credential{
			email: {
				Identity:     Identity{Email: email, Name: name, Role: RoleAdmin},
				PasswordHash: []byte(passwordHash),
			},
		},
		decoy: []byte(passwordHash),
	}
}

func (p *StaticProvider) Lookup(email string) (*Credential, bool) {
	c, ok := p.credentials[email]
	if !ok {
		return nil, false
	}
	return &c, true
}

// DecoyHash is compared against when the email is unknown. It shares the
// cost factor of the real credential so both failures take the same time.
func (p *StaticProvider) DecoyHash() []byte {
	return p.decoy
}

type decoyProvider interface {
	DecoyHash() []byte
}

var (
	fallbackDecoyOnce sync.Once
	fallbackDecoy     []byte
)

func defaultDecoy() []byte {
	fallbackDecoyOnce.Do(func() {
		fallbackDecoy, _ = bcrypt.GenerateFromPassword([]byte("kuna-decoy-password"), bcrypt.DefaultCost)
	})
	return fallbackDecoy
}
