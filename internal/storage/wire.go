package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dark-dev2475/secure--vault/internal/crypto"
)

// byteArray marshals as a JSON array of numbers ([18,52,...]) instead of
// the base64 string encoding/json uses for []byte. Stores exported by the
// original browser extension serialize envelope bytes this way, and the
// persisted shape must stay readable by both sides.
type byteArray []byte

func (b byteArray) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var nums []uint16
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("byte array must be numeric: %w", err)
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n > 0xff {
			return fmt.Errorf("byte value %d out of range", n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// wireEnvelope is the persisted envelope shape: {iv, ciphertext}.
type wireEnvelope struct {
	IV         byteArray `json:"iv"`
	Ciphertext byteArray `json:"ciphertext"`
}

type wireRecord struct {
	ID       string       `json:"id"`
	URL      string       `json:"url,omitempty"`
	Username string       `json:"username,omitempty"`
	Envelope wireEnvelope `json:"envelope"`
}

// indexRow is the unencrypted per-record row kept for listing and search.
type indexRow struct {
	URL      string `json:"url,omitempty"`
	Username string `json:"username,omitempty"`
}

func encodeEnvelope(env crypto.Envelope) ([]byte, error) {
	return json.Marshal(wireEnvelope{IV: env.Nonce, Ciphertext: env.Ciphertext})
}

func decodeEnvelope(data []byte) (crypto.Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return crypto.Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return crypto.Envelope{Nonce: w.IV, Ciphertext: w.Ciphertext}, nil
}

// EncodeRecord serializes a record for export. The envelope keeps the
// numeric-array wire shape.
func EncodeRecord(rec Record) ([]byte, error) {
	return json.Marshal(wireRecord{
		ID:       rec.ID,
		URL:      rec.URL,
		Username: rec.Username,
		Envelope: wireEnvelope{IV: rec.Envelope.Nonce, Ciphertext: rec.Envelope.Ciphertext},
	})
}

// DecodeRecord parses a record serialized by EncodeRecord.
func DecodeRecord(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return Record{
		ID:       w.ID,
		URL:      w.URL,
		Username: w.Username,
		Envelope: crypto.Envelope{Nonce: w.Envelope.IV, Ciphertext: w.Envelope.Ciphertext},
	}, nil
}
