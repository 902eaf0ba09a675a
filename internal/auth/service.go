package auth

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type LoginResult struct {
	AccessToken string
	TokenType   string
	Identity    Identity
}

// Service authenticates the admin and resolves bearer tokens to identities
type Service struct {
	provider IdentityProvider
	tokens   *TokenManager
	logger   *logrus.Logger
}

func NewService(provider IdentityProvider, tokens *TokenManager, logger *logrus.Logger) *Service {
	return &Service{
		provider: provider,
		tokens:   tokens,
		logger:   logger,
	}
}

// Authenticate checks a password against the provider. Unknown emails and
// wrong passwords both return ErrInvalidCredentials after one bcrypt comparison.
func (s *Service) Authenticate(email, password string) (*Identity, error) {
	cred, ok := s.provider.Lookup(email)
	if !ok {
		decoy := defaultDecoy()
		if d, ok := s.provider.(decoyProvider); ok && len(d.DecoyHash()) > 0 {
			decoy = d.DecoyHash()
		}
		_ = bcrypt.CompareHashAndPassword(decoy, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	identity := cred.Identity
	return &identity, nil
}

func (s *Service) Login(email, password string) (*LoginResult, error) {
	identity, err := s.Authenticate(email, password)
	if err != nil {
		s.logger.WithField("email", email).Warn("Admin login failed")
		return nil, err
	}

	token, err := s.tokens.Issue(*identity)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("email", identity.Email).Info("Admin logged in")
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Identity:    *identity,
	}, nil
}

// CurrentIdentity resolves a token to a known identity.
// A valid token for an identity the provider no longer knows is ErrForbidden.
func (s *Service) CurrentIdentity(token string) (*Identity, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	cred, ok := s.provider.Lookup(email)
	if !ok {
		return nil, ErrForbidden
	}
	identity := cred.Identity
	return &identity, nil
}

func (s *Service) RequireAdmin(token string) (*Identity, error) {
	identity, err := s.CurrentIdentity(token)
	if err != nil {
		return nil, err
	}
	if identity.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return identity, nil
}
