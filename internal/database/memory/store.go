// Package memory — хранилище задач, пользователей и токенов в памяти процесса.
// Используется для локального запуска (STORAGE_DRIVER=memory) и в тестах.
package memory

import (
	"maps"
	"sync"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

type state struct {
	tasks  map[string]domain.TaskSnapshot
	users  map[string]domain.UserSnapshot
	tokens map[string]domain.TokenSnapshot
}

func newState() *state {
	return &state{
		tasks:  make(map[string]domain.TaskSnapshot),
		users:  make(map[string]domain.UserSnapshot),
		tokens: make(map[string]domain.TokenSnapshot),
	}
}

func (s *state) clone() *state {
	return &state{
		tasks:  maps.Clone(s.tasks),
		users:  maps.Clone(s.users),
		tokens: maps.Clone(s.tokens),
	}
}

// Store хранит зафиксированное состояние. Транзакция работает с копией,
// а при Commit переносит в Store только свои изменения.
type Store struct {
	mu   sync.RWMutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

// Tasks, Users и Tokens возвращают репозитории вне транзакции (для запросов).
func (s *Store) Tasks() *TaskRepository   { return &TaskRepository{sess: &session{store: s}} }
func (s *Store) Users() *UserRepository   { return &UserRepository{sess: &session{store: s}} }
func (s *Store) Tokens() *TokenRepository { return &TokenRepository{sess: &session{store: s}} }

// UnitOfWorkFactory выдаёт новый UnitOfWork на каждый вызов.
func (s *Store) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return func() ports.UnitOfWork { return s.NewUnitOfWork() }
}

// session направляет операции репозиториев либо в рабочую копию транзакции,
// либо напрямую в Store.
type session struct {
	store *Store
	base  *state // снимок на момент Begin
	tx    *state
}

func (s *session) read(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return fn(s.store.data)
}

func (s *session) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.data)
}
