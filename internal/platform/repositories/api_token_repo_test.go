package repositories

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/models"
)

func createToken(t *testing.T, repo *APITokenRepository, tenantID, plaintext string) *models.APIToken {
	token := &models.APIToken{
		TokenHash:   auth.HashAPIToken(plaintext),
		TokenPrefix: auth.DisplayPrefix(plaintext),
		TenantID:    tenantID,
		Name:        "test token",
	}
	if err := repo.Create(token); err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return token
}

func TestAPITokenRepository_CreateAndGetByHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAPITokenRepository(db)

	created := createToken(t, repo, "tenant-a", "mc_live_secret1")

	fetched, err := repo.GetByHash(auth.HashAPIToken("mc_live_secret1"))
	if err != nil {
		t.Fatalf("Failed to get token: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected token, got nil")
	}
	if fetched.ID != created.ID {
		t.Errorf("Expected id %s, got %s", created.ID, fetched.ID)
	}
	if fetched.TenantID != "tenant-a" {
		t.Errorf("Expected tenant-a, got %s", fetched.TenantID)
	}

	// Unknown digest resolves to no token, not an error.
	missing, err := repo.GetByHash(auth.HashAPIToken("mc_live_never_issued"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown digest")
	}
}

func TestAPITokenRepository_ListActiveByTenant(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAPITokenRepository(db)

	kept := createToken(t, repo, "tenant-a", "mc_live_kept")
	revoked := createToken(t, repo, "tenant-a", "mc_live_revoked")
	createToken(t, repo, "tenant-b", "mc_live_other_tenant")

	if err := repo.Revoke(revoked.ID); err != nil {
		t.Fatalf("Failed to revoke: %v", err)
	}

	tokens, err := repo.ListActiveByTenant("tenant-a")
	if err != nil {
		t.Fatalf("Failed to list tokens: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].ID != kept.ID {
		t.Errorf("Expected %s, got %s", kept.ID, tokens[0].ID)
	}

	// Listings expose the display prefix only, never hash or plaintext.
	encoded, err := json.Marshal(tokens)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if strings.Contains(string(encoded), "mc_live_kept") {
		t.Error("List output contains the plaintext secret")
	}
	if strings.Contains(string(encoded), auth.HashAPIToken("mc_live_kept")) {
		t.Error("List output contains the token hash")
	}
}

func TestAPITokenRepository_RevokeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAPITokenRepository(db)

	token := createToken(t, repo, "tenant-a", "mc_live_revoke_me")

	if err := repo.Revoke(token.ID); err != nil {
		t.Fatalf("First revoke failed: %v", err)
	}
	first, err := repo.GetByID(token.ID)
	if err != nil || first == nil || first.RevokedAt == nil {
		t.Fatalf("Expected revoked token, got %+v (err %v)", first, err)
	}

	// Second revoke succeeds without moving the timestamp.
	if err := repo.Revoke(token.ID); err != nil {
		t.Fatalf("Second revoke failed: %v", err)
	}
	second, err := repo.GetByID(token.ID)
	if err != nil || second == nil || second.RevokedAt == nil {
		t.Fatalf("Expected revoked token, got %+v (err %v)", second, err)
	}
	if *second.RevokedAt != *first.RevokedAt {
		t.Errorf("revoked_at moved from %d to %d", *first.RevokedAt, *second.RevokedAt)
	}
}

func TestAPITokenRepository_UpdateLastUsed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAPITokenRepository(db)

	token := createToken(t, repo, "tenant-a", "mc_live_used")

	if err := repo.UpdateLastUsed(token.ID); err != nil {
		t.Fatalf("Failed to update last used: %v", err)
	}
	fetched, err := repo.GetByID(token.ID)
	if err != nil || fetched == nil {
		t.Fatalf("Failed to get token: %v", err)
	}
	if fetched.LastUsedAt == nil {
		t.Error("Expected last_used_at to be set")
	}
}

func TestAPITokenRepository_RevokeSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAPITokenRepository(db)

	// Revocation must only touch rows that are not yet revoked.
	mock.ExpectExec("UPDATE api_tokens SET revoked_at = \\? WHERE id = \\? AND revoked_at IS NULL").
		WithArgs(sqlmock.AnyArg(), "tok_123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Revoke("tok_123"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
