package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"missionctl/internal/platform/models"
)

type APITokenRepository struct {
	db *sql.DB
}

func NewAPITokenRepository(db *sql.DB) *APITokenRepository {
	return &APITokenRepository{db: db}
}

func (r *APITokenRepository) Create(token *models.APIToken) error {
	if token.ID == "" {
		token.ID = "tok_" + uuid.New().String()
	}
	token.CreatedAt = time.Now().UnixMilli()

	query := `
		INSERT INTO api_tokens (id, token_hash, token_prefix, tenant_id, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, token.ID, token.TokenHash, token.TokenPrefix, token.TenantID, token.Name, token.CreatedAt)
	return err
}

// GetByHash is the trusted gateway lookup path. Returns (nil, nil) when no
// token matches the digest.
func (r *APITokenRepository) GetByHash(hash string) (*models.APIToken, error) {
	query := `SELECT id, token_prefix, tenant_id, name, created_at, last_used_at, revoked_at FROM api_tokens WHERE token_hash = ?`
	token, err := r.scanOne(r.db.QueryRow(query, hash))
	if err != nil {
		return nil, err
	}
	if token != nil {
		token.TokenHash = hash
	}
	return token, nil
}

func (r *APITokenRepository) GetByID(id string) (*models.APIToken, error) {
	query := `SELECT id, token_prefix, tenant_id, name, created_at, last_used_at, revoked_at FROM api_tokens WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// ListActiveByTenant returns the tenant's non-revoked tokens, newest first.
// Plaintext secrets are never stored, so only the display prefix comes back.
func (r *APITokenRepository) ListActiveByTenant(tenantID string) ([]*models.APIToken, error) {
	query := `SELECT id, token_prefix, tenant_id, name, created_at, last_used_at, revoked_at FROM api_tokens WHERE tenant_id = ? AND revoked_at IS NULL ORDER BY created_at DESC`
	rows, err := r.db.Query(query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*models.APIToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// Revoke stamps revoked_at once. Already-revoked tokens are left untouched so
// the first revocation timestamp survives repeated calls.
func (r *APITokenRepository) Revoke(id string) error {
	_, err := r.db.Exec(`UPDATE api_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, time.Now().UnixMilli(), id)
	return err
}

func (r *APITokenRepository) UpdateLastUsed(id string) error {
	_, err := r.db.Exec(`UPDATE api_tokens SET last_used_at = ? WHERE id = ?`, time.Now().UnixMilli(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *APITokenRepository) scanOne(row *sql.Row) (*models.APIToken, error) {
	token, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func scanToken(row rowScanner) (*models.APIToken, error) {
	var t models.APIToken
	var name sql.NullString
	var lastUsedAt sql.NullInt64
	var revokedAt sql.NullInt64

	err := row.Scan(&t.ID, &t.TokenPrefix, &t.TenantID, &name, &t.CreatedAt, &lastUsedAt, &revokedAt)
	if err != nil {
		return nil, err
	}

	t.Name = name.String
	if lastUsedAt.Valid {
		t.LastUsedAt = new(int64)
		*t.LastUsedAt = lastUsedAt.Int64
	}
	if revokedAt.Valid {
		t.RevokedAt = new(int64)
		*t.RevokedAt = revokedAt.Int64
	}
	return &t, nil
}
