package archive

import "context"

// Store persists generated artifacts for later retrieval. Archiving is
// best-effort; the pipeline never fails a run on archive errors.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Disabled is the archive used when no object storage is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, []byte, string) error {
	return nil
}
