package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/MCASE28/planb-tier/internal/dependencies/mocks"
	"github.com/MCASE28/planb-tier/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	cfg := DefaultConfig()
	cfg.Password = "1234"
	s.service = New(s.clock, cfg, testutil.NopLogger())
}

func (s *ServiceSuite) TestVerifyPassword() {
	s.NoError(s.service.VerifyPassword("1234"))
	s.ErrorIs(s.service.VerifyPassword("wrong"), ErrInvalidPassword)
	s.ErrorIs(s.service.VerifyPassword(""), ErrInvalidPassword)
}

func (s *ServiceSuite) TestVerifyPasswordWithBcryptHash() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	cfg := DefaultConfig()
	cfg.PasswordHash = string(hash)
	service := New(s.clock, cfg, testutil.NopLogger())

	s.NoError(service.VerifyPassword("secret"))
	s.ErrorIs(service.VerifyPassword("1234"), ErrInvalidPassword)
}

func (s *ServiceSuite) TestHashTakesPrecedenceOverPlainPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	cfg := DefaultConfig()
	cfg.Password = "1234"
	cfg.PasswordHash = string(hash)
	service := New(s.clock, cfg, testutil.NopLogger())

	s.NoError(service.VerifyPassword("secret"))
	s.ErrorIs(service.VerifyPassword("1234"), ErrInvalidPassword)
}

func (s *ServiceSuite) TestNoPasswordConfigured() {
	service := New(s.clock, DefaultConfig(), testutil.NopLogger())

	s.ErrorIs(service.VerifyPassword("anything"), ErrNoPassword)
}

func (s *ServiceSuite) TestLoginMintsValidSession() {
	session, err := s.service.Login("1234")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Equal(s.clock.Now().Add(12*time.Hour), session.ExpiresAt)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Login("wrong")
	s.ErrorIs(err, ErrInvalidPassword)
}

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.ValidateSession("bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, err := s.service.Login("1234")
	s.Require().NoError(err)

	s.clock.Advance(12*time.Hour + time.Minute)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestRevokeSession() {
	session, err := s.service.Login("1234")
	s.Require().NoError(err)

	s.service.RevokeSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionsAreDistinct() {
	first, err := s.service.Login("1234")
	s.Require().NoError(err)
	second, err := s.service.Login("1234")
	s.Require().NoError(err)

	s.NotEqual(first.Token, second.Token)
}
