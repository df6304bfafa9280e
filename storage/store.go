package storage

import "context"

// Asset identifies an uploaded file
type Asset struct {
	URL string `json:"url"` // stable public URL
	ID  string `json:"id"`  // provider-internal identifier
}

// Store persists rendered assets. The folder is a caller-supplied category,
// e.g. "certificates". Implementations do not retry; retries are the
// caller's concern.
type Store interface {
	Upload(ctx context.Context, data []byte, folder, filename string) (Asset, error)
}
