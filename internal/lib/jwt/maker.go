// Package jwt реализует выпуск и проверку подписанных сессионных токенов
// с пользовательскими claim-полями: идентификатором пользователя, ролью
// и привязкой к заводу.
package jwt

import (
	"time"
)

// Maker описывает интерфейс выпуска и проверки сессионных токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с ролью и заводом.
	GenerateToken(userID, role, factoryID string) (string, error)
	// ParseToken проверяет подпись и срок токена и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на основе секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	tokenTTL  time.Duration // Время жизни токена
}

// NewJWTMaker создаёт новый MakerImpl с секретным ключом и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
