// Package idgen выдаёт идентификаторы сущностей.
package idgen

import (
	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/google/uuid"
)

var _ ports.IDGenerator = UUIDv7{}

// UUIDv7 генерирует UUID версии 7: идентификаторы растут вместе со временем создания.
type UUIDv7 struct{}

func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
