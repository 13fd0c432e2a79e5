package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studieplein/presentie-api/internal/models"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
)

type authStudentRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByCode(ctx context.Context, code string) (*models.Student, error)
}

type authEmployeeRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService authenticates both login populations: employees by email,
// students by email or card code. Lookup misses and password mismatches
// are indistinguishable to the caller.
type AuthService struct {
	students  authStudentRepository
	employees authEmployeeRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, employees authEmployeeRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{students: students, employees: employees, validator: validate, logger: logger, config: config}
}

// Login authenticates a user and returns an issued token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.findAccount(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid login or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.passwordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid login or password")
	}

	token, expiresAt, err := s.generateToken(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", account.id),
		zap.String("role", string(account.role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User: models.UserInfo{
			ID:       account.id,
			Identity: account.identity,
			FullName: account.fullName,
			Role:     account.role,
		},
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// account normalizes the two login populations behind one shape. identity
// comes from the Identifiable capability both types implement.
type account struct {
	id           string
	identity     string
	fullName     string
	passwordHash string
	role         models.UserRole
}

func newAccount(id, fullName, passwordHash string, role models.UserRole, who models.Identifiable) *account {
	return &account{
		id:           id,
		identity:     who.EmailID(),
		fullName:     fullName,
		passwordHash: passwordHash,
		role:         role,
	}
}

// findAccount resolves a login string against employees by email, then
// students by email, then students by card code. A miss everywhere
// returns nil without error; the caller folds it into the credential
// failure.
func (s *AuthService) findAccount(ctx context.Context, login string) (*account, error) {
	employee, err := s.employees.FindByEmail(ctx, login)
	if err == nil {
		return newAccount(employee.ID, employee.FullName(), employee.PasswordHash, models.RoleEmployee, employee), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch employee")
	}

	student, err := s.students.FindByEmail(ctx, login)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		student, err = s.students.FindByCode(ctx, login)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	return newAccount(student.ID, student.FullName(), student.PasswordHash, models.RoleStudent, student), nil
}

func (s *AuthService) generateToken(acc *account) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		UserID:   acc.id,
		Role:     acc.role,
		Identity: acc.identity,
		FullName: acc.fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   acc.id,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
