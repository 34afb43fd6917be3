package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/config"
	"abstractdesk/internal/domain"
	"abstractdesk/internal/repository/memory"
	"abstractdesk/internal/service"
)

var jwtCfg = config.JWTConfig{
	Secret:            "test-secret-for-unit-tests",
	AccessTokenExpiry: time.Hour,
	Issuer:            "abstractdesk",
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAuthService(memory.NewUserRepo(), jwtCfg)

	reg, err := svc.Register(ctx, service.RegisterInput{
		Email: "Delegate@Example.org", Password: "s3cretpass", FullName: "Dr. D",
	})
	require.NoError(t, err)
	assert.Equal(t, "delegate@example.org", reg.User.Email)
	assert.Equal(t, domain.RoleDelegate, reg.User.Role)

	tok, err := svc.Login(ctx, service.LoginInput{Email: "delegate@example.org", Password: "s3cretpass"}, domain.RoleDelegate)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleDelegate, claims.Role)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAuthService(memory.NewUserRepo(), jwtCfg)
	input := service.RegisterInput{Email: "a@x.org", Password: "s3cretpass", FullName: "A"}

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAuthService(memory.NewUserRepo(), jwtCfg)
	_, err := svc.Register(ctx, service.RegisterInput{Email: "a@x.org", Password: "s3cretpass", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, service.LoginInput{Email: "a@x.org", Password: "wrong"}, domain.RoleDelegate)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, service.LoginInput{Email: "nobody@x.org", Password: "s3cretpass"}, domain.RoleDelegate)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// A delegate cannot use the admin login.
	_, err = svc.Login(ctx, service.LoginInput{Email: "a@x.org", Password: "s3cretpass"}, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	svc := service.NewAuthService(memory.NewUserRepo(), jwtCfg)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "abstractdesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: 1,
		Role:   domain.RoleAdmin,
	})
	signed, err := expired.SignedString([]byte(jwtCfg.Secret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "abstractdesk"},
		UserID:           1,
		Role:             domain.RoleAdmin,
	})
	signed, err = otherKey.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}
