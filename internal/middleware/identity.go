package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"csemotors/web/internal/models"
	"csemotors/web/internal/security"
)

const (
	loginPath   = "/account/login"
	accountPath = "/account/"

	msgPleaseLogIn  = "Please log in."
	msgNoPermission = "You do not have permission to access that page."
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *security.IdentityClaims) (bool, error)
}

// Identify verifies the identity cookie when one is present. A bad, expired or
// revoked token clears the cookie and sends the visitor to the login page.
func Identify(secret string, cookie CookieOptions, revocations RevocationChecker, log zerolog.Logger, responder Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := security.ParseIdentityToken(token, secret)
		if err == nil && revocations != nil {
			revoked, checkErr := revocations.IsRevoked(c.Request.Context(), claims)
			if checkErr != nil {
				log.Error().Err(checkErr).Int("account_id", claims.AccountID).Msg("revocation check failed")
			} else if revoked {
				err = security.ErrInvalidToken
			}
		}
		if err != nil {
			log.Debug().Err(err).Str("request_id", RequestIDFrom(c)).Msg("identity cookie rejected")
			ClearIdentityCookie(c, cookie)
			responder.Redirect(c, loginPath, msgPleaseLogIn)
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

func RequireLogin(responder Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c) == nil {
			responder.Redirect(c, loginPath, msgPleaseLogIn)
			return
		}
		c.Next()
	}
}

// RequireRoles lets through identities whose account type is listed. It
// redirects instead of answering 403.
func RequireRoles(responder Responder, roles ...models.AccountType) gin.HandlerFunc {
	roleSet := make(map[models.AccountType]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		identity := Identity(c)
		if identity == nil {
			responder.Redirect(c, loginPath, msgPleaseLogIn)
			return
		}
		if _, ok := roleSet[identity.Type]; !ok {
			responder.Redirect(c, accountPath, msgNoPermission)
			return
		}
		c.Next()
	}
}
