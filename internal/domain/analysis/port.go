package analysis

import "context"

// Repository port (persistence interface)
//
// Save appends one immutable record and must reject an empty UserID.
// Concurrent saves for the same user must not lose a sibling append.
// List returns the user's full history newest-first (timestamp desc,
// ties broken last-inserted-first) and yields an empty slice, not an
// error, for a user with no saved records.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context, userID string) ([]*Record, error)
}

// MediaStore port for archiving uploaded image/audio payloads
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
