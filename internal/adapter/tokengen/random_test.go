package tokengen

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

func TestRandomGenerate(t *testing.T) {
	gen := NewRandom()
	userID, _ := domain.NewUserID("0190f2a4-7b1c-7def-8a12-000000000001")

	a, err := gen.Generate(userID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Generate() unexpected error = %v", err)
	}
	b, _ := gen.Generate(userID, time.Now().Add(time.Hour))

	if !strings.HasPrefix(a, Prefix) || len(a) != len(Prefix)+2*entropyLen {
		t.Errorf("Generate() = %q, want %s + %d hex chars", a, Prefix, 2*entropyLen)
	}
	if a == b {
		t.Error("two tokens are equal")
	}
	if err := domain.ValidatePlainTextToken(a); err != nil {
		t.Errorf("generated token rejected by domain rules: %v", err)
	}
}

func TestRandomGenerateSourceFailure(t *testing.T) {
	readErr := errors.New("no entropy")
	gen := &Random{source: iotest.ErrReader(readErr)}

	_, err := gen.Generate(domain.UserID{}, time.Now())
	if !errors.Is(err, readErr) {
		t.Errorf("Generate() error = %v, want wrapped source error", err)
	}
}
