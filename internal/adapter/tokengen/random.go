// Package tokengen выпускает непрозрачные bearer-токены.
package tokengen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

var _ ports.TokenGenerator = (*Random)(nil)

const (
	Prefix     = "tk_"
	entropyLen = 32
)

// Random собирает токен из префикса и 32 случайных байт в hex (67 символов).
// Пользователь и срок действия в значение не входят: они хранятся рядом с хешем.
type Random struct {
	source io.Reader
}

func NewRandom() *Random {
	return &Random{source: rand.Reader}
}

func (g *Random) Generate(_ domain.UserID, _ time.Time) (string, error) {
	buf := make([]byte, entropyLen)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return Prefix + hex.EncodeToString(buf), nil
}
