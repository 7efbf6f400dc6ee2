package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"csemotors/web/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityClaims is the payload of the identity cookie. It mirrors the
// account row minus the password hash.
type IdentityClaims struct {
	AccountID int                `json:"account_id"`
	FirstName string             `json:"account_firstname"`
	LastName  string             `json:"account_lastname"`
	Email     string             `json:"account_email"`
	Type      models.AccountType `json:"account_type"`
	jwt.RegisteredClaims
}

func GenerateIdentityToken(secret string, account models.Account, ttl time.Duration) (string, IdentityClaims, error) {
	now := time.Now()
	claims := IdentityClaims{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Type:      account.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprint(account.ID),
			ID:        ksuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", IdentityClaims{}, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, claims, nil
}

func ParseIdentityToken(tokenStr string, secret string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Remaining is how long the token stays valid; zero when already expired.
func (c IdentityClaims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	left := time.Until(c.ExpiresAt.Time)
	if left < 0 {
		return 0
	}
	return left
}

func (c IdentityClaims) FullName() string {
	return c.FirstName + " " + c.LastName
}
