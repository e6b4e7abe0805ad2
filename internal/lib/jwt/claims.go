// Package jwt реализует выпуск и разбор токенов сессии продавца.
//
// Сами сессии выдаёт внешний сервис входа; здесь токен только проверяется
// и превращается в models.Seller. GenerateToken нужен для тестов и локального запуска.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов продавца.
type Maker interface {
	GenerateToken(sellerID, email, name string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
