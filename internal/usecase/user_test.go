package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

func TestCreateUserDuplicate(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "john_doe", "john@example.com")
	f.reset()

	_, err := f.uc.CreateUser.Execute(context.Background(), CreateUserInput{
		Username: "jane_doe",
		Email:    "JOHN@example.com",
		Password: "secret-pass",
	})
	assertKind(t, err, domain.KindUserAlreadyExists)
	f.assertTx(t, 0, 1, 1)
}

func TestUpdateUserEmailResetsVerification(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "john_doe", "john@example.com")

	if _, err := f.uc.VerifyUserEmail.Execute(context.Background(), user.ID().String()); err != nil {
		t.Fatalf("VerifyUserEmail.Execute() unexpected error = %v", err)
	}

	updated, err := f.uc.UpdateUser.Execute(context.Background(), UpdateUserInput{
		ID:    user.ID().String(),
		Email: strPtr("new@example.com"),
	})
	if err != nil {
		t.Fatalf("UpdateUser.Execute() unexpected error = %v", err)
	}
	if updated.IsEmailVerified() {
		t.Error("email change must reset verification")
	}

	stored, err := f.uc.GetUserByEmail.Execute(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail.Execute() unexpected error = %v", err)
	}
	if stored.IsEmailVerified() || stored.EmailVerifiedAt() != nil {
		t.Error("stored user is still verified")
	}
}

func TestUpdateUserErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       func(id string) UpdateUserInput
		wantKind domain.Kind
	}{
		{
			name:     "missing user",
			in:       func(string) UpdateUserInput { return UpdateUserInput{ID: "0190f2a4-7b1c-7def-8a12-000000000009"} },
			wantKind: domain.KindUserNotFound,
		},
		{
			name:     "short password",
			in:       func(id string) UpdateUserInput { return UpdateUserInput{ID: id, Password: strPtr("short")} },
			wantKind: domain.KindInvalidPassword,
		},
		{
			name:     "bad email",
			in:       func(id string) UpdateUserInput { return UpdateUserInput{ID: id, Email: strPtr("nope")} },
			wantKind: domain.KindInvalidEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.createUser(t, "john_doe", "john@example.com")
			f.reset()

			_, err := f.uc.UpdateUser.Execute(context.Background(), tt.in(user.ID().String()))
			assertKind(t, err, tt.wantKind)
			f.assertTx(t, 0, 1, 0)
		})
	}
}

func TestDeleteUserRemovesTokens(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Register.Execute(context.Background(), RegisterInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Register.Execute() unexpected error = %v", err)
	}

	if err := f.uc.DeleteUser.Execute(context.Background(), res.User.ID().String()); err != nil {
		t.Fatalf("DeleteUser.Execute() unexpected error = %v", err)
	}

	_, err = f.uc.GetTokenByID.Execute(context.Background(), res.Token.ID().String())
	assertKind(t, err, domain.KindTokenNotFound)

	_, err = f.uc.GetUserByID.Execute(context.Background(), res.User.ID().String())
	assertKind(t, err, domain.KindUserNotFound)
}

func TestVerifyUserEmailIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "john_doe", "john@example.com")

	first, err := f.uc.VerifyUserEmail.Execute(context.Background(), user.ID().String())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	second, err := f.uc.VerifyUserEmail.Execute(context.Background(), user.ID().String())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if !second.IsEmailVerified() {
		t.Fatal("email not verified")
	}
	if !first.EmailVerifiedAt().Equal(*second.EmailVerifiedAt()) {
		t.Errorf("EmailVerifiedAt changed on repeated verification")
	}
}

func TestUserQueries(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "john_doe", "john@example.com")
	ctx := context.Background()

	byName, err := f.uc.GetUserByUsername.Execute(ctx, " john_doe ")
	if err != nil {
		t.Fatalf("GetUserByUsername.Execute() unexpected error = %v", err)
	}
	if !byName.ID().Equals(user.ID()) {
		t.Errorf("GetUserByUsername id = %q, want %q", byName.ID(), user.ID())
	}

	_, err = f.uc.GetUserByUsername.Execute(ctx, "x")
	assertKind(t, err, domain.KindInvalidUsername)

	_, err = f.uc.GetUserByEmail.Execute(ctx, "not-an-email")
	assertKind(t, err, domain.KindInvalidEmail)

	_, err = f.uc.GetUserByID.Execute(ctx, "bad")
	assertKind(t, err, domain.KindInvalidID)
}
