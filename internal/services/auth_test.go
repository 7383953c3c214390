package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nightout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher stores "salt:password" so tests can run without bcrypt cost.
type plainHasher struct{}

func (plainHasher) GenerateSalt() (string, error)           { return "salt", nil }
func (plainHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }
func (plainHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	lastUserID string
	lastExpiry time.Duration
}

func (f *fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	f.lastUserID = userID
	f.lastExpiry = expiry
	return "token-for-" + userID, nil
}

func TestAuth_SignUpAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	issuer := &fakeIssuer{}
	svc := NewAuthService(users, plainHasher{}, issuer, time.Hour)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "  Mia@Example.com ", "longenough", " Mia ")
	require.NoError(t, err)
	assert.Equal(t, "mia@example.com", user.Email)
	assert.Equal(t, "Mia", user.Name)
	assert.Equal(t, "salt", user.Salt)
	assert.NotEqual(t, "longenough", user.PasswordHash)

	token, err := svc.Login(ctx, "MIA@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+user.ID, token)
	assert.Equal(t, time.Hour, issuer.lastExpiry)
}

func TestAuth_SignUpValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), plainHasher{}, &fakeIssuer{}, time.Hour)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "longenough", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.SignUp(ctx, "a@x.com", "short", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(ctx, "a@x.com", "longenough", "")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "A@x.com", "longenough", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuth_LoginRejects(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), plainHasher{}, &fakeIssuer{}, time.Hour)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "a@x.com", "longenough", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@x.com", "longenough")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
