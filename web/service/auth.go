package service

import (
	"github.com/google/uuid"

	"github.com/weijue/blog/database/model"
	"github.com/weijue/blog/logger"
	"github.com/weijue/blog/util/common"
	"github.com/weijue/blog/util/crypto"
)

// Credential is the single configured admin account. The raw password is
// hashed once at startup and discarded; the value never changes afterwards.
type Credential struct {
	Username     string
	PasswordHash string
}

// NewCredential hashes the configured password and builds the immutable
// admin credential. A blank password is a configuration error: the caller
// must refuse to start.
func NewCredential(username, password string) (Credential, error) {
	if username == "" {
		username = "admin"
	}
	if password == "" {
		return Credential{}, common.NewError("admin password is not configured")
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Username: username, PasswordHash: hash}, nil
}

// AuthService decides whether submitted credentials identify the admin.
type AuthService struct {
	credential Credential
}

func NewAuthService(credential Credential) *AuthService {
	return &AuthService{credential: credential}
}

// Check verifies the submitted credentials against the configured account.
// Returns a fresh Principal on success, nil otherwise. Which of the two
// fields was wrong is never surfaced.
func (s *AuthService) Check(username, password string) *model.Principal {
	if username != s.credential.Username {
		// Burn a hash comparison anyway so the response time does not
		// distinguish an unknown username from a wrong password.
		crypto.CheckPasswordHash(s.credential.PasswordHash, password)
		return nil
	}
	if !crypto.CheckPasswordHash(s.credential.PasswordHash, password) {
		return nil
	}
	principal := &model.Principal{
		Username: s.credential.Username,
		Role:     model.RoleAdmin,
		LoginID:  uuid.NewString(),
	}
	logger.Debugf("credentials accepted for %s", principal.Username)
	return principal
}
