// Package security verifies administrator bearer tokens issued by the
// identity provider.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/infrastructure/common"
	"github.com/golang-jwt/jwt/v5"
)

const AdminRole = "admin"

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrNotAdmin     = errors.New("token does not grant admin role")
)

// AdminClaims is the token body the identity provider issues to administrators.
type AdminClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AdminTokenVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewAdminTokenVerifier(secret, issuer string, now func() time.Time) *AdminTokenVerifier {
	if now == nil {
		now = time.Now
	}
	return &AdminTokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
		now:    now,
	}
}

// Verify checks an HS256 token and returns the administrator it identifies.
func (v *AdminTokenVerifier) Verify(token string) (model.Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.AnonymousCaller(), ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims AdminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return model.AnonymousCaller(), mapJWTError(err)
	}

	if claims.Role != AdminRole {
		return model.AnonymousCaller(), ErrNotAdmin
	}

	identity := common.GetNoneEmpty(strings.TrimSpace(claims.Email), claims.Subject)
	if identity == "" {
		return model.AnonymousCaller(), fmt.Errorf("%w: no subject", ErrTokenInvalid)
	}

	return model.Caller{Identity: identity, Authenticated: true}, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
}
