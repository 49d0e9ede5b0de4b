package domain

import (
	"context"
)

// AssetDescriptor identifies one stored media object in the remote content
// repository. ContentHash is the optimistic-concurrency token: every update
// or delete of the object must present the hash returned by the most recent
// successful write. Descriptors are never mutated, only superseded.
type AssetDescriptor struct {
	URL         string `bson:"url" json:"url"`
	StoragePath string `bson:"file_path" json:"file_path"`
	ContentHash string `bson:"sha" json:"sha"`
}

// IsZero reports whether the descriptor references no stored object
func (d *AssetDescriptor) IsZero() bool {
	return d == nil || d.StoragePath == ""
}

// UploadFile is an in-memory file staged for upload, already read off the
// wire. Validation happens against this struct before any network call.
type UploadFile struct {
	Data        []byte
	Name        string
	ContentType string
}

// Size returns the payload size in bytes
func (f UploadFile) Size() int64 { return int64(len(f.Data)) }

// AssetStore wraps the remote content repository.
//
// The remote gates every mutation on the object's current content hash, so
// implementations must return the hash issued by the last successful write
// and never guess or drop it. Batch uploads fan out concurrently but the
// returned slice is index-aligned with the input; a single failure fails the
// whole batch without rolling back siblings already uploaded.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, originalName, folder string) (*AssetDescriptor, error)
	UploadBatch(ctx context.Context, files []UploadFile, folder string) ([]*AssetDescriptor, error)
	Update(ctx context.Context, storagePath string, data []byte, expectedHash string) (*AssetDescriptor, error)
	Delete(ctx context.Context, storagePath string, expectedHash string) error
}
