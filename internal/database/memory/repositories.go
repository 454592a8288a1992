package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

var (
	_ ports.TaskRepository  = (*TaskRepository)(nil)
	_ ports.UserRepository  = (*UserRepository)(nil)
	_ ports.TokenRepository = (*TokenRepository)(nil)
)

type TaskRepository struct {
	sess *session
}

func (r *TaskRepository) GetTaskByID(_ context.Context, id domain.TaskID) (*domain.Task, error) {
	var snap domain.TaskSnapshot
	err := r.sess.read(func(st *state) error {
		s, ok := st.tasks[id.String()]
		if !ok {
			return domain.TaskNotFound(id)
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domain.ReconstructTask(snap)
}

// GetAllTasks возвращает задачи в порядке создания.
func (r *TaskRepository) GetAllTasks(_ context.Context) ([]*domain.Task, error) {
	var snaps []domain.TaskSnapshot
	_ = r.sess.read(func(st *state) error {
		for _, s := range st.tasks {
			snaps = append(snaps, s)
		}
		return nil
	})
	slices.SortFunc(snaps, func(a, b domain.TaskSnapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	tasks := make([]*domain.Task, 0, len(snaps))
	for _, s := range snaps {
		task, err := domain.ReconstructTask(s)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) Save(_ context.Context, task *domain.Task) error {
	return r.sess.write(func(st *state) error {
		st.tasks[task.ID().String()] = task.Snapshot()
		return nil
	})
}

func (r *TaskRepository) DeleteByTaskID(_ context.Context, id domain.TaskID) error {
	return r.sess.write(func(st *state) error {
		if _, ok := st.tasks[id.String()]; !ok {
			return domain.TaskNotFound(id)
		}
		delete(st.tasks, id.String())
		return nil
	})
}

type UserRepository struct {
	sess *session
}

// Save повторяет ограничения уникальности таблицы users.
func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	snap := user.Snapshot()
	return r.sess.write(func(st *state) error {
		for id, existing := range st.users {
			if id == snap.ID {
				continue
			}
			if existing.Username == snap.Username ||
				domain.EmailFromStorage(existing.Email).Equals(user.Email()) {
				return domain.NewError(domain.KindUserAlreadyExists, "")
			}
		}
		st.users[snap.ID] = snap
		return nil
	})
}

func (r *UserRepository) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	return r.findOne(func(s domain.UserSnapshot) bool { return s.ID == id.String() })
}

func (r *UserRepository) FindByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	return r.findOne(func(s domain.UserSnapshot) bool {
		return domain.EmailFromStorage(s.Email).Equals(email)
	})
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findOne(func(s domain.UserSnapshot) bool { return s.Username == username })
}

// DeleteByID удаляет пользователя и каскадно его токены.
func (r *UserRepository) DeleteByID(_ context.Context, id domain.UserID) error {
	return r.sess.write(func(st *state) error {
		if _, ok := st.users[id.String()]; !ok {
			return domain.NewError(domain.KindUserNotFound, "")
		}
		delete(st.users, id.String())
		for tokenID, token := range st.tokens {
			if token.UserID == id.String() {
				delete(st.tokens, tokenID)
			}
		}
		return nil
	})
}

func (r *UserRepository) findOne(match func(domain.UserSnapshot) bool) (*domain.User, error) {
	var (
		snap  domain.UserSnapshot
		found bool
	)
	_ = r.sess.read(func(st *state) error {
		for _, s := range st.users {
			if match(s) {
				snap, found = s, true
				return nil
			}
		}
		return nil
	})
	if !found {
		return nil, domain.NewError(domain.KindUserNotFound, "")
	}
	return domain.ReconstructUser(snap)
}

type TokenRepository struct {
	sess *session
}

// Save вставляет новый токен или обновляет у существующего только
// revoked и last_used_at. Отозванный токен остаётся отозванным.
// Открытое значение не сохраняется.
func (r *TokenRepository) Save(_ context.Context, token *domain.Token) error {
	snap := token.Snapshot()
	snap.PlainTextToken = ""

	return r.sess.write(func(st *state) error {
		if existing, ok := st.tokens[snap.ID]; ok {
			existing.Revoked = existing.Revoked || snap.Revoked
			existing.LastUsedAt = snap.LastUsedAt
			st.tokens[snap.ID] = existing
			return nil
		}
		if _, ok := st.users[snap.UserID]; !ok {
			return domain.NewError(domain.KindUserNotFound, "")
		}
		st.tokens[snap.ID] = snap
		return nil
	})
}

func (r *TokenRepository) FindByID(_ context.Context, id domain.TokenID) (*domain.Token, error) {
	var (
		snap  domain.TokenSnapshot
		found bool
	)
	_ = r.sess.read(func(st *state) error {
		snap, found = st.tokens[id.String()]
		return nil
	})
	if !found {
		return nil, domain.NewError(domain.KindTokenNotFound, "")
	}
	return domain.ReconstructToken(snap)
}

func (r *TokenRepository) GetByPlainTextToken(_ context.Context, plainTextToken string) (*domain.Token, error) {
	hash := domain.HashToken(plainTextToken)

	var (
		snap  domain.TokenSnapshot
		found bool
	)
	_ = r.sess.read(func(st *state) error {
		for _, s := range st.tokens {
			if s.TokenHash == hash {
				snap, found = s, true
				return nil
			}
		}
		return nil
	})
	if !found {
		return nil, domain.NewError(domain.KindTokenNotFound, "")
	}
	return domain.ReconstructToken(snap)
}

func (r *TokenRepository) GetByUserID(_ context.Context, userID domain.UserID) ([]*domain.Token, error) {
	var snaps []domain.TokenSnapshot
	_ = r.sess.read(func(st *state) error {
		for _, s := range st.tokens {
			if s.UserID == userID.String() {
				snaps = append(snaps, s)
			}
		}
		return nil
	})
	slices.SortFunc(snaps, func(a, b domain.TokenSnapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	tokens := make([]*domain.Token, 0, len(snaps))
	for _, s := range snaps {
		token, err := domain.ReconstructToken(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (r *TokenRepository) DeleteByID(_ context.Context, id domain.TokenID) error {
	return r.sess.write(func(st *state) error {
		if _, ok := st.tokens[id.String()]; !ok {
			return domain.NewError(domain.KindTokenNotFound, "")
		}
		delete(st.tokens, id.String())
		return nil
	})
}
