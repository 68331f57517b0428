package vault

import (
	"context"
	"fmt"
	"time"

	"SaferVault/internal/pkg/encryption/envelope"
	"SaferVault/internal/pkg/helpers"
	"SaferVault/internal/protocol"
	"SaferVault/internal/storage"
)

// Service owns the cipher engine: it encrypts text payloads into stored
// records and decrypts them back for their owner.
type Service struct {
	store            Store
	defaultRounds    int
	log              *helpers.Logger
	broadcastHandler func(event interface{})
}

// Store defines the persistence interface
type Store interface {
	CreateRecord(ownerID int64, label, blob string, rounds int) (int64, error)
	GetRecord(recordID int64) (*storage.Record, error)
	ListRecords(ownerID int64) ([]*storage.Record, error)
	DeleteRecord(recordID, ownerID int64) (int64, error)
}

// NewService creates a new vault service. A non-positive defaultRounds falls
// back to the engine default.
func NewService(store Store, defaultRounds int) *Service {
	return &Service{
		store:         store,
		defaultRounds: defaultRounds,
		log:           helpers.NewLogger("VaultService"),
	}
}

// SetBroadcastHandler sets the callback for broadcasting events
func (s *Service) SetBroadcastHandler(handler func(event interface{})) {
	s.broadcastHandler = handler
}

// EncryptText encrypts a plaintext string under a passphrase. When label is
// non-empty the blob is also stored as a record owned by ownerID; the
// returned record is nil otherwise.
func (s *Service) EncryptText(ctx context.Context, ownerID int64, label, plaintext, passphrase string, rounds int) (string, *protocol.Record, error) {
	if rounds <= 0 {
		rounds = s.defaultRounds
	}

	blob, err := envelope.Encrypt(plaintext, passphrase, rounds)
	if err != nil {
		s.log.Error("encryption failed", err, "owner_id", ownerID)
		return "", nil, err
	}

	if label == "" {
		return blob, nil, nil
	}

	recordID, err := s.store.CreateRecord(ownerID, label, blob, rounds)
	if err != nil {
		s.log.Error("failed to store record", err, "owner_id", ownerID)
		return "", nil, err
	}

	record := &protocol.Record{
		ID:        recordID,
		OwnerID:   ownerID,
		Label:     label,
		Blob:      blob,
		Rounds:    rounds,
		CreatedAt: time.Now().Unix(),
	}

	s.log.Info("record created", "record_id", recordID, "owner_id", ownerID)
	s.broadcast(&protocol.WebSocketEvent{
		Type:      "record_created",
		UserID:    ownerID,
		Timestamp: record.CreatedAt,
		Data: &protocol.RecordEvent{
			RecordID:  recordID,
			OwnerID:   ownerID,
			Label:     label,
			Action:    "created",
			Timestamp: record.CreatedAt,
		},
	})

	return blob, record, nil
}

// DecryptBlob decrypts a raw base64 blob without touching storage
func (s *Service) DecryptBlob(ctx context.Context, blob, passphrase string, rounds int) (string, error) {
	if rounds <= 0 {
		rounds = s.defaultRounds
	}
	return envelope.Decrypt(blob, passphrase, rounds)
}

// DecryptRecord decrypts a stored record for its owner. The record's stored
// round count takes precedence over the engine default.
func (s *Service) DecryptRecord(ctx context.Context, userID, recordID int64, passphrase string) (string, error) {
	record, err := s.store.GetRecord(recordID)
	if err != nil {
		return "", err
	}
	if record == nil || record.OwnerID != userID {
		return "", fmt.Errorf("record not found")
	}

	return envelope.Decrypt(record.Blob, passphrase, record.Rounds)
}

// GetRecord returns a stored record for its owner
func (s *Service) GetRecord(ctx context.Context, userID, recordID int64) (*protocol.Record, error) {
	record, err := s.store.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.OwnerID != userID {
		return nil, fmt.Errorf("record not found")
	}
	return toProtocolRecord(record), nil
}

// ListRecords returns all records owned by a user
func (s *Service) ListRecords(ctx context.Context, ownerID int64) ([]*protocol.Record, error) {
	records, err := s.store.ListRecords(ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]*protocol.Record, 0, len(records))
	for _, r := range records {
		result = append(result, toProtocolRecord(r))
	}
	return result, nil
}

// DeleteRecord removes a record owned by the given user
func (s *Service) DeleteRecord(ctx context.Context, userID, recordID int64) error {
	deleted, err := s.store.DeleteRecord(recordID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("record not found")
	}

	now := time.Now().Unix()
	s.log.Info("record deleted", "record_id", recordID, "owner_id", userID)
	s.broadcast(&protocol.WebSocketEvent{
		Type:      "record_deleted",
		UserID:    userID,
		Timestamp: now,
		Data: &protocol.RecordEvent{
			RecordID:  recordID,
			OwnerID:   userID,
			Action:    "deleted",
			Timestamp: now,
		},
	})
	return nil
}

func (s *Service) broadcast(event interface{}) {
	if s.broadcastHandler != nil {
		s.broadcastHandler(event)
	}
}

func toProtocolRecord(r *storage.Record) *protocol.Record {
	return &protocol.Record{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Label:     r.Label,
		Blob:      r.Blob,
		Rounds:    r.Rounds,
		CreatedAt: r.CreatedAt,
	}
}
