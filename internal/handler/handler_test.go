package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoArmGo/TaskApp/internal/adapter/idgen"
	"github.com/GoArmGo/TaskApp/internal/adapter/tokengen"
	"github.com/GoArmGo/TaskApp/internal/database/memory"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/messaging/payloads"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

type testServer struct {
	uc     *usecase.UseCases
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	uc := usecase.New(usecase.Dependencies{
		NewUnitOfWork:  store.UnitOfWorkFactory(),
		Tasks:          store.Tasks(),
		Users:          store.Users(),
		Tokens:         store.Tokens(),
		IDs:            idgen.UUIDv7{},
		TokenGenerator: tokengen.NewRandom(),
		Logger:         logger,
	})

	h := NewHandler(uc, logger)
	recorder := NewUsageRecorder(nil, uc.UpdateTokenLastUsed, logger)
	return &testServer{uc: uc, router: NewRouter(h, recorder, 5*time.Second)}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register регистрирует пользователя через API и возвращает ответ.
func (s *testServer) register(t *testing.T, username, email string) authResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "correct-horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body)
	}
	return decode[authResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body)
	}
	if got := decode[errorResponse](t, rec); got.Error != code {
		t.Errorf("error = %q, want %q", got.Error, code)
	}
}

func TestRegisterAndMe(t *testing.T) {
	s := newTestServer(t)

	auth := s.register(t, "alice", "Alice@Example.com")
	if auth.Token.Type != "Bearer" || auth.Token.Token == "" {
		t.Fatalf("token = %+v", auth.Token)
	}
	if auth.Token.ExpiresAt == nil {
		t.Error("registration token must expire")
	}
	if auth.User.Email != "Alice@Example.com" || auth.User.EmailVerified {
		t.Errorf("user = %+v", auth.User)
	}

	rec := s.do(t, http.MethodGet, "/auth/me", auth.Token.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d", rec.Code)
	}
	if me := decode[userResponse](t, rec); me.ID != auth.User.ID {
		t.Errorf("me.ID = %q, want %q", me.ID, auth.User.ID)
	}
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "alice@example.com")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed json", `{"username":`, http.StatusBadRequest, "bad_request"},
		{"empty body", nil, http.StatusBadRequest, "bad_request"},
		{"unknown field", `{"username":"bob","email":"bob@example.com","password":"correct-horse","admin":true}`, http.StatusBadRequest, "bad_request"},
		{"short password", map[string]string{"username": "bob", "email": "bob@example.com", "password": "short"}, http.StatusUnprocessableEntity, "invalid_input"},
		{"bad username", map[string]string{"username": "bob smith", "email": "bob@example.com", "password": "correct-horse"}, http.StatusUnprocessableEntity, "invalid_input"},
		{"duplicate email", map[string]string{"username": "bob", "email": "ALICE@example.com", "password": "correct-horse"}, http.StatusConflict, "conflict"},
		{"duplicate username", map[string]string{"username": "alice", "email": "bob@example.com", "password": "correct-horse"}, http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assertError(t, rec, tt.status, tt.code)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "alice@example.com")

	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":       "alice@example.com",
		"password":    "correct-horse",
		"remember_me": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	auth := decode[authResponse](t, rec)
	if auth.Token.ExpiresAt == nil || time.Until(*auth.Token.ExpiresAt) < 29*24*time.Hour {
		t.Errorf("remember-me token expires at %v", auth.Token.ExpiresAt)
	}

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"unknown token", "Bearer tk_0000000000000000000000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assertError(t, rec, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "alice@example.com").Token.Token

	rec := s.do(t, http.MethodPost, "/tasks", token, map[string]string{
		"title":       "  Write report  ",
		"description": "quarterly",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body)
	}
	created := decode[taskResponse](t, rec)
	if created.Title != "Write report" || created.Status != "todo" {
		t.Errorf("created = %+v", created)
	}

	rec = s.do(t, http.MethodPatch, "/tasks/"+created.ID, token, map[string]string{"status": "completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body)
	}
	updated := decode[taskResponse](t, rec)
	if updated.Status != "completed" || updated.Title != "Write report" || updated.Description != "quarterly" {
		t.Errorf("updated = %+v", updated)
	}

	rec = s.do(t, http.MethodGet, "/tasks", token, nil)
	if list := decode[[]taskResponse](t, rec); len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	rec = s.do(t, http.MethodDelete, "/tasks/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/tasks/"+created.ID, token, nil)
	assertError(t, rec, http.StatusNotFound, "not_found")
	if msg := decode[errorResponse](t, rec).Message; msg != "Task with ID "+created.ID+" not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestTaskErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "alice@example.com").Token.Token

	rec := s.do(t, http.MethodPost, "/tasks", token, map[string]string{"title": ""})
	assertError(t, rec, http.StatusUnprocessableEntity, "invalid_input")

	rec = s.do(t, http.MethodPost, "/tasks", token, map[string]string{"title": "ok"})
	id := decode[taskResponse](t, rec).ID

	rec = s.do(t, http.MethodPatch, "/tasks/"+id, token, map[string]string{"status": "done"})
	assertError(t, rec, http.StatusUnprocessableEntity, "invalid_input")

	rec = s.do(t, http.MethodDelete, "/tasks/0190a2b4-5c6d-7e8f-9a0b-1c2d3e4f5a6b", token, nil)
	assertError(t, rec, http.StatusNotFound, "not_found")

	rec = s.do(t, http.MethodGet, "/tasks/not-a-uuid", token, nil)
	assertError(t, rec, http.StatusUnprocessableEntity, "invalid_input")
}

func TestUserRoutesAreSelfOnly(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")

	rec := s.do(t, http.MethodGet, "/users/"+bob.User.ID, alice.Token.Token, nil)
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = s.do(t, http.MethodPost, "/users/"+alice.User.ID+"/verify-email", alice.Token.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: status = %d", rec.Code)
	}
	if u := decode[userResponse](t, rec); !u.EmailVerified || u.EmailVerifiedAt == nil {
		t.Errorf("verified user = %+v", u)
	}

	rec = s.do(t, http.MethodPatch, "/users/"+alice.User.ID, alice.Token.Token, map[string]string{"email": "alice@new.example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body)
	}
	if u := decode[userResponse](t, rec); u.EmailVerified {
		t.Error("email change must reset verification")
	}

	rec = s.do(t, http.MethodGet, "/users/"+alice.User.ID+"/tokens", alice.Token.Token, nil)
	if tokens := decode[[]tokenResponse](t, rec); len(tokens) != 1 {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestDeleteUserRevokesAccess(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "alice@example.com")

	rec := s.do(t, http.MethodDelete, "/users/"+alice.User.ID, alice.Token.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/auth/me", alice.Token.Token, nil)
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	auth := s.register(t, "alice", "alice@example.com")

	rec := s.do(t, http.MethodPost, "/auth/logout", auth.Token.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/auth/me", auth.Token.Token, nil)
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestLogoutAll(t *testing.T) {
	s := newTestServer(t)
	first := s.register(t, "alice", "alice@example.com").Token.Token

	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	second := decode[authResponse](t, rec).Token.Token

	rec = s.do(t, http.MethodPost, "/auth/logout-all", second, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout-all: status = %d", rec.Code)
	}
	if got := decode[map[string]int](t, rec)["revoked"]; got != 2 {
		t.Errorf("revoked = %d, want 2", got)
	}

	for _, token := range []string{first, second} {
		rec = s.do(t, http.MethodGet, "/auth/me", token, nil)
		assertError(t, rec, http.StatusUnauthorized, "unauthorized")
	}
}

func TestTokenRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")

	rec := s.do(t, http.MethodGet, "/users/"+bob.User.ID+"/tokens", bob.Token.Token, nil)
	bobTokenID := decode[[]tokenResponse](t, rec)[0].ID

	rec = s.do(t, http.MethodGet, "/tokens/"+bobTokenID, alice.Token.Token, nil)
	assertError(t, rec, http.StatusNotFound, "not_found")

	rec = s.do(t, http.MethodDelete, "/tokens/"+bobTokenID, alice.Token.Token, nil)
	assertError(t, rec, http.StatusNotFound, "not_found")

	rec = s.do(t, http.MethodDelete, "/tokens/"+bobTokenID, bob.Token.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke: status = %d", rec.Code)
	}

	token, err := s.uc.GetTokenByID.Execute(context.Background(), bobTokenID)
	if err != nil {
		t.Fatalf("GetTokenByID: %v", err)
	}
	if !token.IsRevoked() {
		t.Error("token not revoked")
	}
}

type stubPublisher struct {
	err       error
	published []payloads.TokenUsedPayload
}

func (p *stubPublisher) PublishTokenUsed(_ context.Context, payload payloads.TokenUsedPayload) error {
	p.published = append(p.published, payload)
	return p.err
}

func TestUsageRecorder(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	used := issued.Add(time.Hour)

	tests := []struct {
		name         string
		publishErr   error
		wantLastUsed time.Time
	}{
		{"published", nil, issued},
		{"publish failed", errors.New("channel closed"), used},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := domain.Now
			t.Cleanup(func() { domain.Now = restore })
			domain.Now = func() time.Time { return issued }

			s := newTestServer(t)
			auth := s.register(t, "alice", "alice@example.com")
			token, err := s.uc.AuthenticateToken.Execute(context.Background(), auth.Token.Token)
			if err != nil {
				t.Fatalf("AuthenticateToken: %v", err)
			}

			domain.Now = func() time.Time { return used }
			pub := &stubPublisher{err: tt.publishErr}
			recorder := NewUsageRecorder(pub, s.uc.UpdateTokenLastUsed, slog.New(slog.NewTextHandler(io.Discard, nil)))
			recorder.RecordTokenUsage(context.Background(), token)

			if len(pub.published) != 1 || pub.published[0].TokenID != token.ID().String() {
				t.Fatalf("published = %+v", pub.published)
			}

			stored, err := s.uc.GetTokenByID.Execute(context.Background(), token.ID().String())
			if err != nil {
				t.Fatalf("GetTokenByID: %v", err)
			}
			if !stored.LastUsedAt().Equal(tt.wantLastUsed) {
				t.Errorf("LastUsedAt = %v, want %v", stored.LastUsedAt(), tt.wantLastUsed)
			}
		})
	}
}
