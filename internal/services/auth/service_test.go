package auth

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/setgame/internal/dependencies/mocks"
	"github.com/mcoot/setgame/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random, Config{Cost: bcrypt.MinCost})
}

// IssueToken tests

func (s *ServiceSuite) TestIssueTokenUsesRandomSource() {
	s.random.QueueString("secret-token")

	token, hash, err := s.service.IssueToken()
	s.Require().NoError(err)

	s.Equal("secret-token", token)
	s.NotEqual(token, hash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)))
}

func (s *ServiceSuite) TestIssueTokenHashesAreSalted() {
	s.random.QueueString("same", "same")

	_, first, err := s.service.IssueToken()
	s.Require().NoError(err)
	_, second, err := s.service.IssueToken()
	s.Require().NoError(err)

	s.NotEqual(first, second)
}

// VerifyToken tests

func (s *ServiceSuite) TestVerifyTokenAcceptsIssuedToken() {
	token, hash, err := s.service.IssueToken()
	s.Require().NoError(err)

	s.NoError(s.service.VerifyToken(hash, token))
}

func (s *ServiceSuite) TestVerifyTokenRejectsWrongToken() {
	_, hash, err := s.service.IssueToken()
	s.Require().NoError(err)

	s.ErrorIs(s.service.VerifyToken(hash, "wrong"), model.ErrInvalidToken)
	s.ErrorIs(s.service.VerifyToken(hash, ""), model.ErrInvalidToken)
	s.ErrorIs(s.service.VerifyToken("", "anything"), model.ErrInvalidToken)
}

func (s *ServiceSuite) TestDefaultCost() {
	svc := New(s.random, Config{})

	s.Equal(bcrypt.DefaultCost, svc.cost)
}
