package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session est passée explicitement à chaque opération authentifiée.
type Session struct {
	Username     string `yaml:"username"`
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

// check refuse une session absente ou dont l'access token a expiré.
// Le token n'est pas vérifié (pas de clé côté client), seul exp est lu.
func (s *Session) check(now time.Time) error {
	if s == nil || s.AccessToken == "" {
		return ErrAuthRequired
	}
	exp, ok := tokenExpiry(s.AccessToken)
	if ok && !now.Before(exp) {
		return ErrSessionExpired
	}
	return nil
}

// ExpiresAt retourne l'expiration de l'access token si elle est lisible.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return tokenExpiry(s.AccessToken)
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
