package secrets

import "context"

// Provider fetches credential material from a secrets backend. Secrets are
// stored as JSON maps, e.g. {"hostname": "pve1.lab", "username": "api@pve",
// "password": "..."} — the same mapping shape the credential resolver accepts.
type Provider interface {
	// GetSecret retrieves a secret by key/path and returns a key-value map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)
}
