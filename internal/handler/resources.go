package handler

import (
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// Тела запросов. Теги validate дублируют только форму данных;
// бизнес-правила проверяет домен.

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type createTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in_progress completed"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// Ответы.

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID().String(),
		Title:       t.Title(),
		Description: t.Description(),
		Status:      string(t.Status()),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func newTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

type userResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	EmailVerified   bool       `json:"email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID().String(),
		Username:        u.Username(),
		Email:           u.Email().String(),
		EmailVerified:   u.IsEmailVerified(),
		EmailVerifiedAt: u.EmailVerifiedAt(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}
}

// tokenResponse никогда не содержит значения токена.
type tokenResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt time.Time  `json:"last_used_at"`
}

func newTokenResponse(t *domain.Token) tokenResponse {
	return tokenResponse{
		ID:         t.ID().String(),
		UserID:     t.UserID().String(),
		ExpiresAt:  t.ExpiresAt(),
		Revoked:    t.IsRevoked(),
		CreatedAt:  t.CreatedAt(),
		LastUsedAt: t.LastUsedAt(),
	}
}

type issuedToken struct {
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token issuedToken  `json:"token"`
}

func newAuthResponse(res *usecase.AuthResult) authResponse {
	return authResponse{
		User: newUserResponse(res.User),
		Token: issuedToken{
			Type:      "Bearer",
			Token:     res.PlainTextToken,
			ExpiresAt: res.Token.ExpiresAt(),
		},
	}
}
