package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
)

// Bucket names
var (
	configBucket    = []byte("config")    // KDF salt, timestamps, vault id, settings - unencrypted
	indexBucket     = []byte("index")     // Per-record url/username rows for search - unencrypted
	envelopesBucket = []byte("envelopes") // Encrypted credential envelopes
)

// Config keys
var (
	configVersion  = []byte("version")
	configCreated  = []byte("created")
	configModified = []byte("modified")
	configSalt     = []byte("salt")
	configVaultID  = []byte("vault_id")
)

const settingsKeyPrefix = "settings:"

// BoltStore is the bbolt-backed Store implementation.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// Open opens or creates a vault database and ensures its bucket structure.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{configBucket, indexBucket, envelopesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(configBucket)
		if config.Get(configVersion) != nil {
			return nil
		}
		if err := config.Put(configVersion, []byte("1")); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		if err := config.Put(configCreated, created); err != nil {
			return err
		}
		return config.Put(configModified, created)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Put stores a record: the url/username row in the unencrypted index and
// the envelope in the envelopes bucket, in one transaction.
func (s *BoltStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row, err := json.Marshal(indexRow{URL: rec.URL, Username: rec.Username})
	if err != nil {
		return err
	}
	env, err := encodeEnvelope(rec.Envelope)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(indexBucket).Put([]byte(rec.ID), row); err != nil {
			return err
		}
		if err := tx.Bucket(envelopesBucket).Put([]byte(rec.ID), env); err != nil {
			return err
		}
		modified, _ := time.Now().MarshalBinary()
		return tx.Bucket(configBucket).Put(configModified, modified)
	})
	if err != nil {
		return fmt.Errorf("failed to store record %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record with the given id, or nil if absent.
func (s *BoltStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		envData := tx.Bucket(envelopesBucket).Get([]byte(id))
		if envData == nil {
			return nil
		}
		r, err := s.assembleRecord(tx, id, envData)
		if err != nil {
			return err
		}
		rec = &r
		return nil
	})
	return rec, err
}

// GetAll returns all records in bucket order.
func (s *BoltStore) GetAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(envelopesBucket).ForEach(func(k, v []byte) error {
			rec, err := s.assembleRecord(tx, string(k), v)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

func (s *BoltStore) assembleRecord(tx *bolt.Tx, id string, envData []byte) (Record, error) {
	env, err := decodeEnvelope(envData)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", id, err)
	}
	// Copy out of the transaction; bbolt slices are only valid inside it.
	env.Nonce = append([]byte(nil), env.Nonce...)
	env.Ciphertext = append([]byte(nil), env.Ciphertext...)

	rec := Record{ID: id, Envelope: env}
	if rowData := tx.Bucket(indexBucket).Get([]byte(id)); rowData != nil {
		var row indexRow
		if err := json.Unmarshal(rowData, &row); err != nil {
			return Record{}, fmt.Errorf("record %s: bad index row: %w", id, err)
		}
		rec.URL = row.URL
		rec.Username = row.Username
	}
	return rec, nil
}

// Delete removes a record from both buckets. Absent ids are a no-op.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(indexBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(envelopesBucket).Delete([]byte(id))
	})
}

// GetSalt retrieves the KDF salt, or nil if none was stored.
func (s *BoltStore) GetSalt(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var salt []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(configBucket).Get(configSalt); v != nil {
			salt = append([]byte(nil), v...)
		}
		return nil
	})
	return salt, err
}

// SetSalt stores the KDF salt in plaintext.
func (s *BoltStore) SetSalt(ctx context.Context, salt []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(salt) != crypto.SaltSize {
		return fmt.Errorf("salt must be %d bytes, got %d", crypto.SaltSize, len(salt))
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(configBucket).Put(configSalt, salt)
	})
}

// GetSettings returns the settings record with the given id, or nil.
func (s *BoltStore) GetSettings(ctx context.Context, id string) (*Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var settings *Settings
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(configBucket).Get([]byte(settingsKeyPrefix + id))
		if data == nil {
			return nil
		}
		settings = &Settings{}
		return json.Unmarshal(data, settings)
	})
	return settings, err
}

// SaveSettings stores a settings record keyed by its ID field.
func (s *BoltStore) SaveSettings(ctx context.Context, settings Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if settings.ID == "" {
		return fmt.Errorf("settings record requires an id")
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(configBucket).Put([]byte(settingsKeyPrefix+settings.ID), data)
	})
}

// GetOrCreateVaultID retrieves the vault ID, generating one on first use.
// The ID is a random token used to scope OS-keyring entries to this vault.
func (s *BoltStore) GetOrCreateVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(configBucket).Get(configVaultID); v != nil {
			vaultID = string(v)
		}
		return nil
	})
	if err != nil || vaultID != "" {
		return vaultID, err
	}

	b, err := crypto.GenerateRandom(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(configBucket).Put(configVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}
	return vaultID, nil
}

// GetVaultID retrieves the vault ID, or "" if none exists yet.
func (s *BoltStore) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(configBucket).Get(configVaultID); v != nil {
			vaultID = string(v)
		}
		return nil
	})
	return vaultID, err
}

// GetModified retrieves the last modified timestamp.
func (s *BoltStore) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(configBucket).Get(configModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// Count returns the number of stored records.
func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(envelopesBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Compact creates a compacted copy of the database, removing unused space.
// Useful after deleting credentials or rotating the master password.
func (s *BoltStore) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})
	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}
	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
