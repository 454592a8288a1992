package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/database/memory"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

// recorder считает обращения к транзакциям и репозиториям.
type recorder struct {
	begins    int
	commits   int
	rollbacks int
	saves     int
	commitErr error
}

// recordingUoW оборачивает UnitOfWork из memory и пишет вызовы в recorder.
type recordingUoW struct {
	inner *memory.UnitOfWork
	rec   *recorder
}

func (u *recordingUoW) Begin(ctx context.Context) error {
	u.rec.begins++
	return u.inner.Begin(ctx)
}

func (u *recordingUoW) Commit() error {
	u.rec.commits++
	if u.rec.commitErr != nil {
		_ = u.inner.Rollback()
		return u.rec.commitErr
	}
	return u.inner.Commit()
}

func (u *recordingUoW) Rollback() error {
	u.rec.rollbacks++
	return u.inner.Rollback()
}

func (u *recordingUoW) Tasks() ports.TaskRepository {
	return &countingTasks{TaskRepository: u.inner.Tasks(), rec: u.rec}
}

func (u *recordingUoW) Users() ports.UserRepository {
	return &countingUsers{UserRepository: u.inner.Users(), rec: u.rec}
}

func (u *recordingUoW) Tokens() ports.TokenRepository {
	return &countingTokens{TokenRepository: u.inner.Tokens(), rec: u.rec}
}

type countingTasks struct {
	ports.TaskRepository
	rec *recorder
}

func (r *countingTasks) Save(ctx context.Context, task *domain.Task) error {
	r.rec.saves++
	return r.TaskRepository.Save(ctx, task)
}

type countingUsers struct {
	ports.UserRepository
	rec *recorder
}

func (r *countingUsers) Save(ctx context.Context, user *domain.User) error {
	r.rec.saves++
	return r.UserRepository.Save(ctx, user)
}

type countingTokens struct {
	ports.TokenRepository
	rec *recorder
}

func (r *countingTokens) Save(ctx context.Context, token *domain.Token) error {
	r.rec.saves++
	return r.TokenRepository.Save(ctx, token)
}

// sequentialIDs выдаёт детерминированные UUID.
type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.n.Add(1))
}

type fakeTokenGenerator struct {
	n   atomic.Int64
	err error
}

func (g *fakeTokenGenerator) Generate(_ domain.UserID, _ time.Time) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("tok_%040d", g.n.Add(1)), nil
}

type fixture struct {
	store     *memory.Store
	rec       *recorder
	ids       *sequentialIDs
	generator *fakeTokenGenerator
	uc        *UseCases
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     memory.NewStore(),
		rec:       &recorder{},
		ids:       &sequentialIDs{},
		generator: &fakeTokenGenerator{},
	}
	f.uc = New(Dependencies{
		NewUnitOfWork:  f.newUoW,
		Tasks:          f.store.Tasks(),
		Users:          f.store.Users(),
		Tokens:         f.store.Tokens(),
		IDs:            f.ids,
		TokenGenerator: f.generator,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *fixture) newUoW() ports.UnitOfWork {
	return &recordingUoW{inner: f.store.NewUnitOfWork(), rec: f.rec}
}

// reset обнуляет счётчики после подготовки данных.
func (f *fixture) reset() {
	*f.rec = recorder{}
}

func (f *fixture) createUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := f.uc.CreateUser.Execute(context.Background(), CreateUserInput{
		Username: username,
		Email:    email,
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("CreateUser.Execute() unexpected error = %v", err)
	}
	return user
}

func (f *fixture) createTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := f.uc.CreateTask.Execute(context.Background(), CreateTaskInput{Title: title})
	if err != nil {
		t.Fatalf("CreateTask.Execute() unexpected error = %v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }

// freezeClock фиксирует domain.Now на время теста.
func freezeClock(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	prev := domain.Now
	domain.Now = func() time.Time { return at }
	t.Cleanup(func() { domain.Now = prev })
	return at
}

func assertKind(t *testing.T, err error, want domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	got, ok := domain.KindOf(err)
	if !ok {
		t.Fatalf("expected domain error %s, got %T: %v", want, err, err)
	}
	if got != want {
		t.Fatalf("error kind = %s, want %s", got, want)
	}
}

func (f *fixture) assertTx(t *testing.T, commits, rollbacks, saves int) {
	t.Helper()
	if f.rec.commits != commits || f.rec.rollbacks != rollbacks || f.rec.saves != saves {
		t.Errorf("commits/rollbacks/saves = %d/%d/%d, want %d/%d/%d",
			f.rec.commits, f.rec.rollbacks, f.rec.saves, commits, rollbacks, saves)
	}
}
