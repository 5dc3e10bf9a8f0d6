package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"trainhub/internal/catalog"
	catalogservice "trainhub/internal/catalog/service"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/requestcontext"
)

const testSigningKey = "test-signing-key"

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	service  *Service
	employee *catalog.Employee
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	cat := catalogservice.New(catalog.NewInMemoryStore())
	s.service = New(cat, testSigningKey, time.Hour)

	dept, err := cat.CreateDepartment(s.ctx, "Safety")
	s.Require().NoError(err)
	pos, err := cat.CreatePosition(s.ctx, "Instructor")
	s.Require().NoError(err)
	role, err := cat.CreateRole(s.ctx, "admin")
	s.Require().NoError(err)

	s.employee, err = cat.CreateEmployee(s.ctx, catalogservice.EmployeeInput{
		FullName: "Anna Sidorova", DepartmentID: dept.ID, PositionID: pos.ID, RoleID: role.ID,
		Username: "asidorova", Password: "correct horse",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestLogin() {
	session, err := s.service.Login(s.ctx, "asidorova", "correct horse")
	s.Require().NoError(err)

	s.Equal(s.employee.ID, session.EmployeeID)
	s.Equal("Anna Sidorova", session.FullName)
	s.Equal("admin", session.Role)
	s.NotEmpty(session.Token)
}

func (s *ServiceSuite) TestLoginTokenClaims() {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, now)

	session, err := s.service.Login(ctx, "asidorova", "correct horse")
	s.Require().NoError(err)
	s.Equal(now.Add(time.Hour), session.ExpiresAt)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(session.Token, claims,
		func(t *jwt.Token) (any, error) { return []byte(testSigningKey), nil })
	s.Require().NoError(err)
	s.True(token.Valid)
	s.Equal(s.employee.ID, claims.EmployeeID)
	s.Equal("admin", claims.Role)
	s.Equal("asidorova", claims.Subject)
	s.Equal(now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Login(s.ctx, "asidorova", "wrong")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid username or password", dErrors.MessageOf(err))
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "whatever")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	// Same message as a wrong password so enumeration is not possible.
	s.Equal("invalid username or password", dErrors.MessageOf(err))
}

func (s *ServiceSuite) TestLoginMissingFields() {
	_, err := s.service.Login(s.ctx, "", "secret")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.service.Login(s.ctx, "asidorova", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestParseToken() {
	session, err := s.service.Login(s.ctx, "asidorova", "correct horse")
	s.Require().NoError(err)

	claims, err := s.service.ParseToken(session.Token)
	s.Require().NoError(err)
	s.Equal(s.employee.ID, claims.EmployeeID)
}

func (s *ServiceSuite) TestParseTokenRejectsTampering() {
	other := New(s.service.directory, "another-key", time.Hour)
	session, err := other.Login(s.ctx, "asidorova", "correct horse")
	s.Require().NoError(err)

	_, err = s.service.ParseToken(session.Token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestParseTokenRejectsExpired() {
	past := requestcontext.WithTime(s.ctx, time.Now().Add(-2*time.Hour))
	session, err := s.service.Login(past, "asidorova", "correct horse")
	s.Require().NoError(err)

	_, err = s.service.ParseToken(session.Token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
