package userapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"blogfeed/internal/core/apperr"
	userEntity "blogfeed/internal/core/user"
	userPort "blogfeed/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer = "blogfeed"
	tokenTTL    = 24 * time.Hour
)

// usernamePattern keeps handles usable as a single URL path segment.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ErrInvalidCredentials matches apperr.ErrUnauthorized.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)

// UserService registers authors and issues session tokens.
type UserService struct {
	UserRepository userPort.UserRepository
	jwtKey         []byte
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		jwtKey:         jwtKey,
		logger:         logger,
		now:            time.Now,
	}
}

// RegisterUser creates an author with a bcrypt-hashed password.
func (s *UserService) RegisterUser(ctx context.Context, firstName, lastName, username, password string) (*userPort.UserDTO, error) {
	username = strings.TrimSpace(username)
	verr := &apperr.ValidationError{}
	if username == "" {
		verr.Add("username", "required")
	} else if !usernamePattern.MatchString(username) {
		verr.Add("username", "letters, digits and @/./+/-/_ only")
	}
	if len(password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	existing, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, apperr.NewValidationError("username", "already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:        uuid.Must(uuid.NewV4()),
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  string(hashed),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("username", u.Username))
	dto := userPort.ToDTO(u)
	return &dto, nil
}

// LoginUser checks the password and returns a signed HS256 token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Debug("invalid password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	expires := s.now().Add(tokenTTL)
	claims := &jwt.StandardClaims{
		Subject:   u.ID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{Token: token, ExpiresAt: expires.Unix()}, nil
}

// ParseToken validates a token issued by LoginUser and returns its subject.
func (s *UserService) ParseToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*userEntity.User, error) {
	return s.UserRepository.FindByUsername(ctx, username)
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*userEntity.User, error) {
	return s.UserRepository.FindByID(ctx, id)
}
