package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"

	issuer = "social-node"
)

var ErrWrongTokenType = errors.New("wrong token type")

// UserClaims : Subject porte le username, Type distingue access et refresh.
type UserClaims struct {
	Type     string `json:"typ"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewJWTProvider charge les clés RSA depuis leur forme PEM.
func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte) (*JWTProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return newProvider(privKey, pubKey), nil
}

// NewJWTProviderFromKey : clé générée au démarrage (mode local, tests).
func NewJWTProviderFromKey(key *rsa.PrivateKey) *JWTProvider {
	return newProvider(key, &key.PublicKey)
}

func newProvider(priv *rsa.PrivateKey, pub *rsa.PublicKey) *JWTProvider {
	return &JWTProvider{
		privateKey:    priv,
		publicKey:     pub,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		now:           time.Now,
	}
}

func (j *JWTProvider) AccessTTL() time.Duration { return j.accessExpiry }

// GenerateTokens crée la paire access + refresh.
func (j *JWTProvider) GenerateTokens(user *domain.User) (string, string, error) {
	now := j.now()

	access, err := j.sign(UserClaims{
		Type:             tokenAccess,
		Email:            user.Email,
		Username:         user.Username,
		IsAdmin:          user.IsAdmin,
		RegisteredClaims: j.registered(user.Username, now, j.accessExpiry),
	})
	if err != nil {
		return "", "", err
	}

	// Le refresh ne sert qu'à identifier l'utilisateur.
	refresh, err := j.sign(UserClaims{
		Type:             tokenRefresh,
		RegisteredClaims: j.registered(user.Username, now, j.refreshExpiry),
	})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Validate n'accepte que les access tokens et retourne le username.
func (j *JWTProvider) Validate(token string) (string, error) {
	return j.parse(token, tokenAccess)
}

func (j *JWTProvider) ValidateRefresh(token string) (string, error) {
	return j.parse(token, tokenRefresh)
}

func (j *JWTProvider) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
		ID:        uuid.NewString(),
	}
}

func (j *JWTProvider) sign(claims UserClaims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return s, nil
}

func (j *JWTProvider) parse(raw, want string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &UserClaims{}, func(t *jwt.Token) (any, error) {
		// Refuse "none" et HS256 signé avec la clé publique.
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.publicKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	if claims.Type != want {
		return "", ErrWrongTokenType
	}
	return claims.Subject, nil
}
