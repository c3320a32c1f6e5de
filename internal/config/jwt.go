package config

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type PlayerClaims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWT signs and verifies RS256 player tokens.
type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func NewJWTFromKeys(private *rsa.PrivateKey, public *rsa.PublicKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    private,
		publicKey:     public,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}
}

// NewJWT loads keys from JWT_PRIVATE_KEY[_FILE] and JWT_PUBLIC_KEY[_FILE].
func NewJWT() (*JWT, error) {
	privatePEM, err := secret("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	private, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privatePEM))
	if err != nil {
		return nil, err
	}
	publicPEM, err := secret("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicPEM))
	if err != nil {
		return nil, err
	}
	return NewJWTFromKeys(private, public, time.Hour*24*30), nil
}

func (j *JWT) Lifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(playerID int64, username string) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) Parse(token string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
