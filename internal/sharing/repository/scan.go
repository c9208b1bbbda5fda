package repository

import (
	"encoding/json"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
)

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanShare scans one share row, decoding the JSON recipient columns and the
// envelope wire formats.
func scanShare(row rowScanner) (*sharingDomain.Share, error) {
	var share sharingDomain.Share
	var sharedTo, metadata []byte
	var encryptedData string

	err := row.Scan(
		&share.ID,
		&share.CredentialID,
		&share.OwnerID,
		&sharedTo,
		&metadata,
		&encryptedData,
		&share.Salt,
		&share.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	share.SharedTo, err = unmarshalSharedTo(sharedTo)
	if err != nil {
		return nil, err
	}
	share.RecipientKeys, err = unmarshalRecipientKeys(metadata)
	if err != nil {
		return nil, err
	}
	share.EncryptedData, err = cryptoDomain.ParseEnvelope(encryptedData)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// marshalRecipients encodes the shared_to set and recipient_metadata map as
// JSON column values.
func marshalRecipients(share *sharingDomain.Share) (string, string, error) {
	sharedTo := make([]string, 0, len(share.SharedTo))
	for _, userID := range share.SharedTo {
		sharedTo = append(sharedTo, userID.String())
	}
	sharedToJSON, err := json.Marshal(sharedTo)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to encode shared_to")
	}

	metadata := make(map[string]string, len(share.RecipientKeys))
	for userID, envelope := range share.RecipientKeys {
		metadata[userID.String()] = envelope.String()
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to encode recipient_metadata")
	}

	return string(sharedToJSON), string(metadataJSON), nil
}

// unmarshalSharedTo decodes the shared_to JSON array.
func unmarshalSharedTo(raw []byte) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode shared_to")
	}

	sharedTo := make([]uuid.UUID, 0, len(encoded))
	for _, value := range encoded {
		userID, err := uuid.Parse(value)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse shared_to entry")
		}
		sharedTo = append(sharedTo, userID)
	}
	return sharedTo, nil
}

// unmarshalRecipientKeys decodes the recipient_metadata JSON map.
func unmarshalRecipientKeys(raw []byte) (map[uuid.UUID]cryptoDomain.Envelope, error) {
	keys := make(map[uuid.UUID]cryptoDomain.Envelope)
	if len(raw) == 0 {
		return keys, nil
	}

	var encoded map[string]string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode recipient_metadata")
	}

	for key, value := range encoded {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse recipient_metadata key")
		}
		envelope, err := cryptoDomain.ParseEnvelope(value)
		if err != nil {
			return nil, err
		}
		keys[userID] = envelope
	}
	return keys, nil
}
