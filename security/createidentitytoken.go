package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EmployeeIdentity is the slice of the external auth service's account we
// care about. The UserID is the uuid that keys attendance rows.
type EmployeeIdentity struct {
	UserID   string
	Email    string
	FullName string
}

type IdentityClaims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// CreateIdentityToken mints an HS256 token for an employee, mirroring what
// the auth service issues. Used by integration tooling and tests.
func CreateIdentityToken(identity *EmployeeIdentity, secret []byte, expiresIn time.Duration) (string, error) {
	claims := IdentityClaims{
		Email:    identity.Email,
		FullName: identity.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    "hadirin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}
	return signed, nil
}
