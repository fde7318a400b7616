package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// WalletClaims carries the authenticated wallet identity. The platform
// never holds key material; signing happens wallet-side and the API only
// consumes the resulting identity token.
type WalletClaims struct {
	WalletID string `json:"wallet_id"`
	jwt.RegisteredClaims
}

// Middleware authenticates requests via a Bearer token and stores the
// wallet identity on the gin context under "wallet_id".
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("wallet_id", claims.WalletID)
		c.Next()
	}
}

// ParseToken validates a wallet identity token
func ParseToken(tokenString, secret string) (*WalletClaims, error) {
	claims := &WalletClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.WalletID == "" {
		return nil, fmt.Errorf("token carries no wallet identity")
	}
	return claims, nil
}

// IssueToken mints a wallet identity token, used after a successful
// wallet-signature challenge.
func IssueToken(walletID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &WalletClaims{
		WalletID: walletID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   walletID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
