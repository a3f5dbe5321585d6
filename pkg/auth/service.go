package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/librisbooks/libris/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12
	// TokenExpiry is how long bearer tokens are valid.
	TokenExpiry = 7 * 24 * time.Hour // 7 days
)

// JWTClaims represents the claims in a bearer token. The registered ID (jti)
// keys the api_tokens row that makes the token revocable.
type JWTClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// Service handles registration, credential verification, and the
// issue/revoke lifecycle of bearer tokens.
type Service struct {
	db        *bun.DB
	jwtSecret []byte
}

// NewService creates a new auth service.
func NewService(db *bun.DB, jwtSecret string) *Service {
	return &Service{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

// RegisterOptions contains options for registering a user.
type RegisterOptions struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user. A duplicate email is reported as a
// validation failure on the email field.
func (s *Service) Register(ctx context.Context, opts RegisterOptions) (*models.User, error) {
	hashedPassword, err := HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Name:         opts.Name,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		if isEmailConflict(err) {
			msg := `"email" has already been taken`
			return nil, errcodes.ValidationFailed(msg, map[string][]string{
				"email": {msg},
			})
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user if valid. The
// failure is the same for an unknown email and a wrong password so accounts
// can't be enumerated.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.email = ? COLLATE NOCASE", email).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.InvalidCredentials()
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errcodes.InvalidCredentials()
	}

	return user, nil
}

// IssueToken persists a token row and returns the signed bearer token.
func (s *Service) IssueToken(ctx context.Context, user *models.User) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.WithStack(err)
	}

	now := time.Now()
	token := &models.Token{
		ID:        id.String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenExpiry),
	}
	_, err = s.db.NewInsert().Model(token).Exec(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}

	claims := JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.ID,
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken verifies a bearer token's signature, requires its api_tokens
// row to still exist (revocation check), and returns the owning user.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*models.User, *JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	exists, err := s.db.NewSelect().
		Model((*models.Token)(nil)).
		Where("t.id = ?", claims.ID).
		Where("t.expires_at > ?", time.Now()).
		Exists(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !exists {
		return nil, nil, errors.New("token revoked or expired")
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}

// RevokeToken deletes the token row. Revoking an already-revoked token is a
// no-op.
func (s *Service) RevokeToken(ctx context.Context, tokenID string) error {
	_, err := s.db.NewDelete().
		Model((*models.Token)(nil)).
		Where("id = ?", tokenID).
		Exec(ctx)
	return errors.WithStack(err)
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func isEmailConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}
