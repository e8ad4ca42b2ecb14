package vault

import "time"

// MetadataID is the fixed store key of the vault metadata record.
// Its presence is the "vault initialized" ground truth; successfully
// decrypting and parsing it proves the supplied password is correct.
const MetadataID = "vault.metadata"

// Metadata is the single encrypted per-vault record used as the
// unlock-verification payload.
type Metadata struct {
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
	LastAccessed time.Time `json:"lastAccessed"`
	Version      int       `json:"version"`
}

// NewMetadata creates metadata for a freshly initialized vault.
func NewMetadata() Metadata {
	now := time.Now().UTC()
	return Metadata{
		Created:      now,
		LastModified: now,
		LastAccessed: now,
		Version:      1,
	}
}
