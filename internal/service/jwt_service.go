package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService emite y valida los tokens de identidad de los llamadores.
// El proveedor de identidad real es externo; Issue existe para herramientas de admin.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

func NewJWTService(secret, issuer string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if issuer == "" {
		issuer = "place-trainer"
	}
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue firma un token de identidad para uid.
func (s *JWTService) Issue(uid string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(uid) == "" {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseIdentity valida el token y devuelve la identidad del llamador.
func (s *JWTService) ParseIdentity(tokenString string) (Identity, error) {
	if len(s.secret) == 0 {
		return Identity{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrJWTExpired
		}
		return Identity{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return Identity{}, ErrJWTInvalid
	}
	return Identity{UID: claims.UserID}, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	return claims.Subject == claims.UserID
}
