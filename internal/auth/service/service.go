// Package service authenticates employees against the catalog and issues
// signed session tokens.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trainhub/internal/catalog"
	"trainhub/internal/platform/metrics"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/passwords"
	"trainhub/pkg/requestcontext"
)

// Directory is the slice of the catalog needed to authenticate: credential
// lookup by username and role resolution for the token claims.
type Directory interface {
	GetEmployeeByUsername(ctx context.Context, username string) (*catalog.Employee, error)
	GetRole(ctx context.Context, id int64) (*catalog.Role, error)
}

// Claims is the token payload issued on login.
type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token      string    `json:"token"`
	EmployeeID int64     `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Service issues and verifies session tokens.
type Service struct {
	directory  Directory
	signingKey []byte
	tokenTTL   time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs an auth Service.
func New(directory Directory, signingKey string, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		directory:  directory,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credentials and returns a signed session. An unknown
// username and a wrong password produce the same error, so the response
// never reveals which part was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username and password are required")
	}

	employee, err := s.directory.GetEmployeeByUsername(ctx, username)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, err
	}
	if !passwords.Verify(password, employee.PasswordDigest) {
		s.logger.WarnContext(ctx, "login rejected", "username", username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}

	role, err := s.directory.GetRole(ctx, employee.RoleID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	expiresAt := now.Add(s.tokenTTL)
	claims := Claims{
		EmployeeID: employee.ID,
		Role:       role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	s.logger.InfoContext(ctx, "login succeeded",
		"employee_id", employee.ID,
		"role", role.Name,
	)
	s.incrementLogins()
	return &Session{
		Token:      token,
		EmployeeID: employee.ID,
		FullName:   employee.FullName,
		Role:       role.Name,
		ExpiresAt:  expiresAt,
	}, nil
}

// ParseToken validates a token's signature and expiry and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

func (s *Service) incrementLogins() {
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
}
