package jwt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrMalformed el token no se puede decodificar o no trae sujeto.
	ErrMalformed = errors.New("jwt: token mal formado")
	// ErrExpired el token ya venció.
	ErrExpired = errors.New("jwt: token expirado")
)

// Claims datos que el BFF lee del token que emite la API de inventario.
// UserID es el nombre alternativo del sujeto que usan algunos emisores.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// Identity sujeto y vencimiento del token reenviado.
type Identity struct {
	Subject   string
	ExpiresAt time.Time // cero si el token no declara exp
}

// Inspect decodifica el token sin verificar la firma: quien valida es la API de
// inventario al recibirlo. Aquí solo se usa el sujeto para aislar las sesiones
// de edición por usuario y se rechazan de antemano los tokens vencidos.
func Inspect(tokenString string, now time.Time) (Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id := Identity{Subject: claims.Subject}
	if id.Subject == "" {
		id.Subject = claims.UserID
	}
	if id.Subject == "" {
		return Identity{}, fmt.Errorf("%w: sin sujeto", ErrMalformed)
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
		if !now.Before(id.ExpiresAt) {
			return Identity{}, ErrExpired
		}
	}
	return id, nil
}

// Fingerprint huella del token completo. Como la firma no se verifica aquí, las
// sesiones de edición se atan a esta huella y no solo al sujeto: un token
// fabricado con el mismo sujeto no alcanza los borradores de otro token.
func Fingerprint(tokenString string) string {
	sum := blake2b.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
