package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

const testPlain = "tk_0123456789abcdef0123456789abcdef0123456789"

func TestCreateToken(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "john_doe", "john@example.com")
	f.reset()

	expires := domain.Now().Add(time.Hour)
	token, err := f.uc.CreateToken.Execute(context.Background(), CreateTokenInput{
		UserID:         user.ID().String(),
		PlainTextToken: testPlain,
		ExpiresAt:      &expires,
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if token.PlainTextToken() != testPlain {
		t.Errorf("PlainTextToken() = %q", token.PlainTextToken())
	}
	f.assertTx(t, 1, 0, 1)

	tokens, err := f.uc.GetTokensByUserID.Execute(context.Background(), user.ID().String())
	if err != nil {
		t.Fatalf("GetTokensByUserID.Execute() unexpected error = %v", err)
	}
	if len(tokens) != 1 || !tokens[0].Matches(testPlain) {
		t.Errorf("GetTokensByUserID() = %v, want the created token", tokens)
	}
}

func TestCreateTokenErrors(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name     string
		userID   string
		plain    string
		expires  *time.Time
		wantKind domain.Kind
	}{
		{"unknown user", "0190f2a4-7b1c-7def-8a12-000000000009", testPlain, nil, domain.KindUserNotFound},
		{"short token", "", "short", nil, domain.KindInvalidPlainTextToken},
		{"expired", "", testPlain, &past, domain.KindInvalidTokenTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			userID := tt.userID
			if userID == "" {
				userID = f.createUser(t, "john_doe", "john@example.com").ID().String()
			}
			f.reset()

			_, err := f.uc.CreateToken.Execute(context.Background(), CreateTokenInput{
				UserID:         userID,
				PlainTextToken: tt.plain,
				ExpiresAt:      tt.expires,
			})
			assertKind(t, err, tt.wantKind)
			f.assertTx(t, 0, 1, 0)
		})
	}
}

func TestRevokeToken(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Register.Execute(context.Background(), RegisterInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Register.Execute() unexpected error = %v", err)
	}
	f.reset()

	if err := f.uc.RevokeToken.Execute(context.Background(), res.Token.ID().String()); err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	f.assertTx(t, 1, 0, 1)

	stored, err := f.uc.GetTokenByID.Execute(context.Background(), res.Token.ID().String())
	if err != nil {
		t.Fatalf("GetTokenByID.Execute() unexpected error = %v", err)
	}
	if !stored.IsRevoked() || stored.IsValid() {
		t.Error("token must be revoked and invalid")
	}

	f.reset()
	err = f.uc.RevokeToken.Execute(context.Background(), "0190f2a4-7b1c-7def-8a12-000000000009")
	assertKind(t, err, domain.KindTokenNotFound)
	f.assertTx(t, 0, 1, 0)
}

func TestRevokeAllUserTokens(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Register.Execute(context.Background(), RegisterInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Register.Execute() unexpected error = %v", err)
	}
	if _, err := f.uc.Login.Execute(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "secret-pass",
	}); err != nil {
		t.Fatalf("Login.Execute() unexpected error = %v", err)
	}
	f.reset()

	count, err := f.uc.RevokeAllUserTokens.Execute(context.Background(), res.User.ID().String())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	f.assertTx(t, 1, 0, 2)

	tokens, _ := f.uc.GetTokensByUserID.Execute(context.Background(), res.User.ID().String())
	for _, token := range tokens {
		if !token.IsRevoked() {
			t.Errorf("token %s not revoked", token.ID())
		}
	}
}

func TestRevokeAllUserTokensWithoutTokens(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "john_doe", "john@example.com")
	f.reset()

	count, err := f.uc.RevokeAllUserTokens.Execute(context.Background(), user.ID().String())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	f.assertTx(t, 1, 0, 0)
}

func TestUpdateTokenLastUsed(t *testing.T) {
	at := freezeClock(t)
	f := newFixture(t)
	res, err := f.uc.Register.Execute(context.Background(), RegisterInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Register.Execute() unexpected error = %v", err)
	}

	later := at.Add(5 * time.Minute)
	domain.Now = func() time.Time { return later }

	if err := f.uc.UpdateTokenLastUsed.Execute(context.Background(), res.Token.ID().String()); err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}

	stored, err := f.uc.GetTokenByID.Execute(context.Background(), res.Token.ID().String())
	if err != nil {
		t.Fatalf("GetTokenByID.Execute() unexpected error = %v", err)
	}
	if !stored.LastUsedAt().Equal(later) {
		t.Errorf("LastUsedAt() = %v, want %v", stored.LastUsedAt(), later)
	}
}
