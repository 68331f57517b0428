package protocol

// EncryptionAlgorithm type for available algorithms
type EncryptionAlgorithm string

const (
	SaferK128 EncryptionAlgorithm = "SAFER_K128"
)

// EncryptionMode type for block cipher modes
type EncryptionMode string

const (
	ECB EncryptionMode = "ECB"
	CBC EncryptionMode = "CBC"
)

// PaddingMode type for padding schemes
type PaddingMode string

const (
	Zeros PaddingMode = "ZEROS"
	PKCS7 PaddingMode = "PKCS7"
	ANSI  PaddingMode = "ANSI_X923"
)

// User represents a registered user
type User struct {
	ID             int64
	Username       string
	HashedPassword string
	CreatedAt      int64
}

// Record represents a stored encrypted text payload. Blob holds the base64
// envelope (IV plus CBC ciphertext); the plaintext and passphrase are never
// persisted.
type Record struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	Label     string `json:"label"`
	Blob      string `json:"blob"`
	Rounds    int    `json:"rounds"`
	CreatedAt int64  `json:"created_at"`
}

// EncryptRequest asks the vault to encrypt a text payload. A non-empty label
// also stores the result as a record owned by the caller.
type EncryptRequest struct {
	Label      string `json:"label,omitempty"`
	Plaintext  string `json:"plaintext"`
	Passphrase string `json:"passphrase"`
	Rounds     int    `json:"rounds,omitempty"`
}

// DecryptRequest asks the vault to decrypt either a stored record (by ID) or
// a raw blob.
type DecryptRequest struct {
	RecordID   int64  `json:"record_id,omitempty"`
	Blob       string `json:"blob,omitempty"`
	Passphrase string `json:"passphrase"`
	Rounds     int    `json:"rounds,omitempty"`
}

// WebSocketEvent represents a real-time event sent over WebSocket
type WebSocketEvent struct {
	Type      string      `json:"type"`    // "record_created", "record_deleted"
	UserID    int64       `json:"user_id"` // Target user ID
	Data      interface{} `json:"data"`    // Event data
	Timestamp int64       `json:"timestamp"`
}

// RecordEvent data
type RecordEvent struct {
	RecordID  int64  `json:"record_id"`
	OwnerID   int64  `json:"owner_id"`
	Label     string `json:"label"`
	Action    string `json:"action"` // "created", "deleted"
	Timestamp int64  `json:"timestamp"`
}
