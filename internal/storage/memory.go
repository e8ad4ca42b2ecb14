package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and by hosts that supply
// their own persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]Record
	salt     []byte
	settings map[string]Settings
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string]Record),
		settings: make(map[string]Settings),
	}
}

func cloneRecord(rec Record) Record {
	rec.Envelope.Nonce = append([]byte(nil), rec.Envelope.Nonce...)
	rec.Envelope.Ciphertext = append([]byte(nil), rec.Envelope.Ciphertext...)
	return rec
}

func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) GetSalt(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.salt == nil {
		return nil, nil
	}
	return append([]byte(nil), s.salt...), nil
}

func (s *MemoryStore) SetSalt(ctx context.Context, salt []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salt = append([]byte(nil), salt...)
	return nil
}

func (s *MemoryStore) GetSettings(ctx context.Context, id string) (*Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[id]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (s *MemoryStore) SaveSettings(ctx context.Context, settings Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.ID] = settings
	return nil
}
