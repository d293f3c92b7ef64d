package models

// APIToken is a tenant-scoped bearer credential for the webhook ingestion
// route. Only the SHA-256 digest of the secret is stored; the plaintext is
// returned once at creation time and never again.
type APIToken struct {
	ID          string `json:"id"`
	TokenHash   string `json:"-"`
	TokenPrefix string `json:"token_prefix"`
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	LastUsedAt  *int64 `json:"last_used_at,omitempty"`
	RevokedAt   *int64 `json:"revoked_at,omitempty"`
}

func (t *APIToken) Revoked() bool {
	return t.RevokedAt != nil
}
