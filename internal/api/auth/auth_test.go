package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/database/mock"
	"golang.org/x/crypto/bcrypt"
)

type AuthenticatorTestSuite struct {
	suite.Suite
	ctx  context.Context
	db   *mock.MockDB
	auth *Authenticator
}

func (s *AuthenticatorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = mock.NewMockDB()
	s.auth = NewAuthenticator(s.db, cache.NewLoginAttempts(cache.NewStore(nil), 3, time.Minute))
	s.auth.cost = bcrypt.MinCost
}

func (s *AuthenticatorTestSuite) register(username, password string) {
	_, err := s.auth.Register(s.ctx, Account{Username: username, Password: password})
	s.Require().NoError(err)
}

func (s *AuthenticatorTestSuite) TestRegister() {
	user, err := s.auth.Register(s.ctx, Account{
		Username:  "leo",
		Email:     "leo@example.com",
		FirstName: "Leo",
		LastName:  "Tolstoy",
		Password:  "war-and-peace",
	})
	s.Require().NoError(err)
	s.NotZero(user.ID)
	s.NotEqual("war-and-peace", user.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("war-and-peace")))
	s.Equal("Leo Tolstoy", user.FullName())
}

func (s *AuthenticatorTestSuite) TestRegister_UsernameTaken() {
	s.register("leo", "war-and-peace")

	_, err := s.auth.Register(s.ctx, Account{Username: "leo", Password: "another-one"})
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *AuthenticatorTestSuite) TestRegister_DatabaseError() {
	s.db.CreateUserError = errors.New("disk full")

	_, err := s.auth.Register(s.ctx, Account{Username: "leo", Password: "war-and-peace"})
	s.Error(err)
	s.NotErrorIs(err, ErrUsernameTaken)
}

func (s *AuthenticatorTestSuite) TestAuthenticate() {
	s.register("leo", "war-and-peace")

	user, err := s.auth.Authenticate(s.ctx, "leo", "war-and-peace")
	s.Require().NoError(err)
	s.Equal("leo", user.Username)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_WrongPassword() {
	s.register("leo", "war-and-peace")

	_, err := s.auth.Authenticate(s.ctx, "leo", "anna-karenina")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_UnknownUser() {
	_, err := s.auth.Authenticate(s.ctx, "nobody", "password")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_PasswordlessAccount() {
	_, err := s.db.GetOrCreateOIDCUser(s.ctx, "sub-1", "oidc-user", "oidc@example.com")
	s.Require().NoError(err)

	_, err = s.auth.Authenticate(s.ctx, "oidc-user", "")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_Lockout() {
	s.register("leo", "war-and-peace")

	for range 3 {
		_, err := s.auth.Authenticate(s.ctx, "leo", "wrong")
		s.ErrorIs(err, ErrInvalidCredentials)
	}

	_, err := s.auth.Authenticate(s.ctx, "leo", "war-and-peace")
	s.ErrorIs(err, ErrLocked)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_SuccessResetsFailures() {
	s.register("leo", "war-and-peace")

	for range 2 {
		_, err := s.auth.Authenticate(s.ctx, "leo", "wrong")
		s.ErrorIs(err, ErrInvalidCredentials)
	}
	_, err := s.auth.Authenticate(s.ctx, "leo", "war-and-peace")
	s.Require().NoError(err)

	for range 2 {
		_, err := s.auth.Authenticate(s.ctx, "leo", "wrong")
		s.ErrorIs(err, ErrInvalidCredentials)
	}
	_, err = s.auth.Authenticate(s.ctx, "leo", "war-and-peace")
	s.NoError(err)
}

func (s *AuthenticatorTestSuite) TestAuthenticate_WithoutThrottling() {
	a := NewAuthenticator(s.db, nil)
	a.cost = bcrypt.MinCost
	_, err := a.Register(s.ctx, Account{Username: "leo", Password: "war-and-peace"})
	s.Require().NoError(err)

	for range 10 {
		_, err := a.Authenticate(s.ctx, "leo", "wrong")
		s.ErrorIs(err, ErrInvalidCredentials)
	}
	_, err = a.Authenticate(s.ctx, "leo", "war-and-peace")
	s.NoError(err)
}

func TestAuthenticatorTestSuite(t *testing.T) {
	suite.Run(t, new(AuthenticatorTestSuite))
}
