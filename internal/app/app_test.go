package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/TaskApp/internal/adapter/idgen"
	"github.com/GoArmGo/TaskApp/internal/adapter/tokengen"
	"github.com/GoArmGo/TaskApp/internal/config"
	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/database/memory"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/messaging/payloads"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newUseCases(factory ports.UnitOfWorkFactory, store *memory.Store) *usecase.UseCases {
	return usecase.New(usecase.Dependencies{
		NewUnitOfWork:  factory,
		Tasks:          store.Tasks(),
		Users:          store.Users(),
		Tokens:         store.Tokens(),
		IDs:            idgen.UUIDv7{},
		TokenGenerator: tokengen.NewRandom(),
		Logger:         discard,
	})
}

func TestRunRejectsUnsupportedModes(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.DriverMemory, RequestTimeout: time.Second}

	tests := []struct {
		name string
		mode string
		want string
	}{
		{"unknown", "batch", "неизвестный режим"},
		{"worker without broker", ModeWorker, "RABBITMQ_URL"},
		{"migrate on memory", ModeMigrate, "migrate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApp(cfg, discard, nil, nil, nil)
			err := a.Run(context.Background(), tt.mode)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Run(%q) error = %v, want containing %q", tt.mode, err, tt.want)
			}
		})
	}
}

func TestShutdownClosesInReverseOrder(t *testing.T) {
	var order []string
	closeErr := errors.New("close failed")

	a := NewApp(&config.Config{}, discard, nil, nil, nil,
		func() error { order = append(order, "db"); return nil },
		func() error { order = append(order, "queue"); return closeErr },
	)

	err := a.Shutdown()
	if !errors.Is(err, closeErr) {
		t.Errorf("Shutdown() error = %v, want %v", err, closeErr)
	}
	if strings.Join(order, ",") != "queue,db" {
		t.Errorf("close order = %v", order)
	}

	order = nil
	if err := a.Shutdown(); err != nil || len(order) != 0 {
		t.Errorf("second Shutdown() = %v, closed %v", err, order)
	}
}

type failingUoW struct {
	ports.UnitOfWork
}

func (failingUoW) Begin(context.Context) error { return errors.New("connection refused") }

func TestTokenUsageHandler(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCases(store.UnitOfWorkFactory(), store)

	res, err := uc.Register.Execute(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokenID := res.Token.ID().String()

	broken := newUseCases(func() ports.UnitOfWork { return failingUoW{} }, store)

	tests := []struct {
		name    string
		update  *usecase.UpdateTokenLastUsedCommand
		tokenID string
		wantErr bool
	}{
		{"existing token", uc.UpdateTokenLastUsed, tokenID, false},
		{"deleted token is acked", uc.UpdateTokenLastUsed, "0190a2b4-5c6d-7e8f-9a0b-1c2d3e4f5a6b", false},
		{"malformed id is acked", uc.UpdateTokenLastUsed, "nope", false},
		{"storage failure is retried", broken.UpdateTokenLastUsed, tokenID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := tokenUsageHandler(discard, tt.update)
			err := handle(context.Background(), payloads.TokenUsedPayload{TokenID: tt.tokenID, UsedAt: domain.Now()})
			if (err != nil) != tt.wantErr {
				t.Errorf("handler error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
