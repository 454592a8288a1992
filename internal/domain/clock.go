package domain

import "time"

// Now возвращает текущее время в UTC с точностью до микросекунд —
// именно с такой точностью PostgreSQL хранит timestamptz.
// Переменная подменяется в тестах.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
