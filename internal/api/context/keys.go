package context

type Key string

const (
	Claims   Key = "claims"
	TenantID Key = "tenant_id"
	Params   Key = "params"
)
