package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles emitidos en los tokens.
const (
	RoleAdmin    = "admin"
	RoleRecorder = "registrador"
)

// Claims claims estándar más el registrador y su rol.
// El middleware decide permisos con Role sin consultar almacenamiento.
type Claims struct {
	jwt.RegisteredClaims
	Submitter string `json:"submitter"`
	Role      string `json:"role"` // "admin" | "registrador"
}

// Generate firma un token HS256 para el registrador.
func Generate(secret, submitter, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if submitter == "" {
		return "", fmt.Errorf("jwt: registrador vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   submitter,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Submitter: submitter,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y vencimiento y devuelve registrador y rol.
func Parse(secret, tokenString string) (submitter, role string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Submitter == "" {
		return "", "", fmt.Errorf("claims inválidos")
	}
	return claims.Submitter, claims.Role, nil
}
