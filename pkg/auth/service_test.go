package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/librisbooks/libris/pkg/migrations"
	"github.com/librisbooks/libris/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testJWTSecret = "test-secret"

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func registerTestUser(ctx context.Context, t *testing.T, svc *Service) *models.User {
	t.Helper()

	user, err := svc.Register(ctx, RegisterOptions{
		Name:     "Jean Valjean",
		Email:    "jean@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	return user
}

func TestServiceRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	user := registerTestUser(ctx, t, svc)

	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, CheckPassword("password123", user.PasswordHash))
}

func TestServiceRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registerTestUser(ctx, t, svc)

	_, err := svc.Register(ctx, RegisterOptions{
		Name:     "Impostor",
		Email:    "jean@example.com",
		Password: "password456",
	})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 422, codeErr.HTTPCode)
	assert.Equal(t, []string{`"email" has already been taken`}, codeErr.Errors["email"])
}

func TestServiceRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registerTestUser(ctx, t, svc)

	_, err := svc.Register(ctx, RegisterOptions{
		Name:     "Impostor",
		Email:    "JEAN@example.com",
		Password: "password456",
	})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_failed", codeErr.Code)
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registered := registerTestUser(ctx, t, svc)

	user, err := svc.Authenticate(ctx, "jean@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestServiceAuthenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registerTestUser(ctx, t, svc)

	_, err := svc.Authenticate(ctx, "jean@example.com", "wrongpassword")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 422, codeErr.HTTPCode)
	assert.Equal(t, "Invalid credentials.", codeErr.Message)
}

func TestServiceAuthenticate_UnknownEmailMatchesWrongPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registerTestUser(ctx, t, svc)

	// Both failures must be indistinguishable.
	_, wrongPasswordErr := svc.Authenticate(ctx, "jean@example.com", "wrongpassword")
	_, unknownEmailErr := svc.Authenticate(ctx, "nobody@example.com", "password123")
	require.Error(t, wrongPasswordErr)
	require.Error(t, unknownEmailErr)
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error())
}

func TestServiceIssueAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registered := registerTestUser(ctx, t, svc)

	token, err := svc.IssueToken(ctx, registered)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestServiceValidateToken_Revoked(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registered := registerTestUser(ctx, t, svc)

	token, err := svc.IssueToken(ctx, registered)
	require.NoError(t, err)

	_, claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	err = svc.RevokeToken(ctx, claims.ID)
	require.NoError(t, err)

	// The signature is still valid but the backing row is gone.
	_, _, err = svc.ValidateToken(ctx, token)
	require.Error(t, err)
}

func TestServiceValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testJWTSecret)
	ctx := context.Background()

	registered := registerTestUser(ctx, t, svc)

	token, err := svc.IssueToken(ctx, registered)
	require.NoError(t, err)

	other := NewService(db, "another-secret")
	_, _, err = other.ValidateToken(ctx, token)
	require.Error(t, err)
}

func TestServiceRevokeToken_AlreadyRevoked(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestDB(t), testJWTSecret)
	ctx := context.Background()

	registered := registerTestUser(ctx, t, svc)

	token, err := svc.IssueToken(ctx, registered)
	require.NoError(t, err)

	_, claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, claims.ID))
	require.NoError(t, svc.RevokeToken(ctx, claims.ID))
}
