package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry определяет момент истечения access token.
// Токен для клиента непрозрачен, но если это JWT, берем claim exp
// (подпись не проверяется: это делает сервер). Иначе используем expires_in.
// Нулевое время означает "срок неизвестен".
func tokenExpiry(token string, expiresIn int64, now time.Time) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}

	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}

	return time.Time{}
}

// expiresWithin reports whether exp falls before now+skew.
// Unknown expiry never triggers a refresh.
func expiresWithin(exp, now time.Time, skew time.Duration) bool {
	if exp.IsZero() {
		return false
	}
	return !now.Add(skew).Before(exp)
}
