package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckDeleted(t *testing.T) {
	driverErr := errors.New("driver: bad connection")

	tests := []struct {
		name    string
		res     fakeResult
		wantErr error
	}{
		{"deleted", fakeResult{rows: 1}, nil},
		{"nothing deleted", fakeResult{rows: 0}, domain.ErrTaskNotFound},
		{"rows affected unavailable", fakeResult{err: driverErr}, driverErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDeleted(tt.res, "задачи", domain.NewError(domain.KindTaskNotFound, ""))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("checkDeleted() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("checkDeleted() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenUpsertNeverClearsRevoked(t *testing.T) {
	query := strings.Join(strings.Fields(tokenUpsertQuery), " ")

	if !strings.Contains(query, "revoked = tokens.revoked OR EXCLUDED.revoked") {
		t.Errorf("upsert may un-revoke a token: %s", query)
	}
	if strings.Contains(query, "token_hash = EXCLUDED") || strings.Contains(query, "user_id = EXCLUDED") {
		t.Errorf("upsert must not rewrite immutable columns: %s", query)
	}
}
