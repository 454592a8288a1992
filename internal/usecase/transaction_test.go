package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
)

func TestRunInTransactionCommitFailure(t *testing.T) {
	f := newFixture(t)
	commitErr := errors.New("connection reset")
	f.rec.commitErr = commitErr

	_, err := f.uc.CreateTask.Execute(context.Background(), CreateTaskInput{Title: "Buy milk"})
	if !errors.Is(err, commitErr) {
		t.Fatalf("error = %v, want wrapped commit error", err)
	}
	f.assertTx(t, 1, 0, 1)

	f.rec.commitErr = nil
	tasks, _ := f.uc.GetAllTasks.Execute(context.Background())
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0 after failed commit", len(tasks))
	}
}

func TestRunInTransactionReturnsErrorUnchanged(t *testing.T) {
	f := newFixture(t)
	want := errors.New("boom")

	_, err := runInTransaction(context.Background(), f.newUoW, slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(ports.UnitOfWork) (int, error) { return 0, want })
	if err != want {
		t.Errorf("error = %v, want the original error", err)
	}
	f.assertTx(t, 0, 1, 0)
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	f := newFixture(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = inTransaction(context.Background(), f.newUoW, slog.New(slog.NewTextHandler(io.Discard, nil)),
			func(ports.UnitOfWork) error { panic("unexpected") })
	}()

	f.assertTx(t, 0, 1, 0)
}
