package memory

import (
	"context"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork — транзакция поверх Store. Репозитории создаются один раз в конструкторе.
type UnitOfWork struct {
	sess   *session
	tasks  *TaskRepository
	users  *UserRepository
	tokens *TokenRepository
}

func (s *Store) NewUnitOfWork() *UnitOfWork {
	sess := &session{store: s}
	return &UnitOfWork{
		sess:   sess,
		tasks:  &TaskRepository{sess: sess},
		users:  &UserRepository{sess: sess},
		tokens: &TokenRepository{sess: sess},
	}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.sess.tx != nil {
		return ports.ErrTransactionActive
	}
	u.sess.store.mu.RLock()
	base := u.sess.store.data.clone()
	u.sess.store.mu.RUnlock()

	u.sess.base = base
	u.sess.tx = base.clone()
	return nil
}

// Commit применяет к текущему состоянию Store только записи и удаления этой
// транзакции и заново проверяет ограничения таблиц: уникальность пользователей
// и владельца токена. При нарушении Store не меняется.
func (u *UnitOfWork) Commit() error {
	if u.sess.tx == nil {
		return ports.ErrNoTransaction
	}
	base, tx := u.sess.base, u.sess.tx
	u.sess.base, u.sess.tx = nil, nil

	store := u.sess.store
	store.mu.Lock()
	defer store.mu.Unlock()

	next := store.data.clone()

	written, deleted := diff(base.tasks, tx.tasks)
	for id, snap := range written {
		next.tasks[id] = snap
	}
	for _, id := range deleted {
		delete(next.tasks, id)
	}

	writtenUsers, deletedUsers := diff(base.users, tx.users)
	for id, snap := range writtenUsers {
		next.users[id] = snap
	}
	for _, id := range deletedUsers {
		delete(next.users, id)
		for tokenID, token := range next.tokens {
			if token.UserID == id {
				delete(next.tokens, tokenID)
			}
		}
	}

	writtenTokens, deletedTokens := diff(base.tokens, tx.tokens)
	for id, snap := range writtenTokens {
		if current, ok := next.tokens[id]; ok {
			// отзыв необратим, даже если транзакция читала токен до отзыва
			snap.Revoked = snap.Revoked || current.Revoked
		}
		next.tokens[id] = snap
	}
	for _, id := range deletedTokens {
		delete(next.tokens, id)
	}

	if err := next.checkUsers(writtenUsers); err != nil {
		return err
	}
	for _, snap := range writtenTokens {
		if _, ok := next.users[snap.UserID]; !ok {
			return domain.NewError(domain.KindUserNotFound, "")
		}
	}

	store.data = next
	return nil
}

func (u *UnitOfWork) Rollback() error {
	u.sess.base, u.sess.tx = nil, nil
	return nil
}

func (u *UnitOfWork) Tasks() ports.TaskRepository   { return u.tasks }
func (u *UnitOfWork) Users() ports.UserRepository   { return u.users }
func (u *UnitOfWork) Tokens() ports.TokenRepository { return u.tokens }

// diff возвращает ключи, записанные или удалённые в tx относительно base.
func diff[V comparable](base, tx map[string]V) (written map[string]V, deleted []string) {
	written = make(map[string]V)
	for id, v := range tx {
		if old, ok := base[id]; !ok || old != v {
			written[id] = v
		}
	}
	for id := range base {
		if _, ok := tx[id]; !ok {
			deleted = append(deleted, id)
		}
	}
	return written, deleted
}

// checkUsers повторяет уникальные индексы users для изменённых записей.
func (s *state) checkUsers(changed map[string]domain.UserSnapshot) error {
	for id, snap := range changed {
		email := domain.EmailFromStorage(snap.Email)
		for otherID, other := range s.users {
			if otherID == id {
				continue
			}
			if other.Username == snap.Username || domain.EmailFromStorage(other.Email).Equals(email) {
				return domain.NewError(domain.KindUserAlreadyExists, "")
			}
		}
	}
	return nil
}
