package service

import (
	"context"
	"errors"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = &Error{Kind: KindUnauthorized, Message: "invalid credentials"}

// Authenticate checks an email and password pair. Unknown emails, wrong
// passwords and suspended identities all fail the same way.
func (s *RegistrationService) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return domain.Identity{}, errBadCredentials
	}
	id, err := s.store.FindIdentityByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Identity{}, errBadCredentials
	}
	if err != nil {
		return domain.Identity{}, storeError("failed to load identity", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)); err != nil {
		logrus.WithFields(logrus.Fields{"identity_id": id.ID}).Warn("Login rejected")
		return domain.Identity{}, errBadCredentials
	}
	if id.Status != domain.StatusActive {
		return domain.Identity{}, errBadCredentials
	}
	return id, nil
}
