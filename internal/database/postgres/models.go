package postgres

import (
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

// TaskModel — строка таблицы tasks.
type TaskModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;not null"`
	Status      string    `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

func taskModelFromDomain(t *domain.Task) TaskModel {
	s := t.Snapshot()
	return TaskModel{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m TaskModel) toDomain() (*domain.Task, error) {
	return domain.ReconstructTask(domain.TaskSnapshot{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	})
}

// UserModel — строка таблицы users.
type UserModel struct {
	ID              string     `gorm:"column:id;type:uuid;primaryKey"`
	Username        string     `gorm:"column:username;unique;not null"`
	Email           string     `gorm:"column:email;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	EmailVerified   bool       `gorm:"column:email_verified;not null"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (UserModel) TableName() string {
	return "users"
}

func userModelFromDomain(u *domain.User) UserModel {
	s := u.Snapshot()
	return UserModel{
		ID:              s.ID,
		Username:        s.Username,
		Email:           s.Email,
		PasswordHash:    s.PasswordHash,
		EmailVerified:   s.EmailVerified,
		EmailVerifiedAt: s.EmailVerifiedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m UserModel) toDomain() (*domain.User, error) {
	return domain.ReconstructUser(domain.UserSnapshot{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		EmailVerified:   m.EmailVerified,
		EmailVerifiedAt: utcPtr(m.EmailVerifiedAt),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	})
}

// TokenModel — строка таблицы tokens. Открытое значение токена не хранится.
type TokenModel struct {
	ID         string     `gorm:"column:id;type:uuid;primaryKey"`
	UserID     string     `gorm:"column:user_id;type:uuid;not null;index"`
	TokenHash  string     `gorm:"column:token_hash;unique;not null"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	Revoked    bool       `gorm:"column:revoked;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	LastUsedAt time.Time  `gorm:"column:last_used_at"`
}

func (TokenModel) TableName() string {
	return "tokens"
}

func tokenModelFromDomain(t *domain.Token) TokenModel {
	s := t.Snapshot()
	return TokenModel{
		ID:         s.ID,
		UserID:     s.UserID,
		TokenHash:  s.TokenHash,
		ExpiresAt:  s.ExpiresAt,
		Revoked:    s.Revoked,
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.LastUsedAt,
	}
}

func (m TokenModel) toDomain() (*domain.Token, error) {
	return domain.ReconstructToken(domain.TokenSnapshot{
		ID:         m.ID,
		UserID:     m.UserID,
		TokenHash:  m.TokenHash,
		ExpiresAt:  utcPtr(m.ExpiresAt),
		Revoked:    m.Revoked,
		CreatedAt:  m.CreatedAt.UTC(),
		LastUsedAt: m.LastUsedAt.UTC(),
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
