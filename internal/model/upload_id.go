package model

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidUploadID = errors.New("invalid upload id")

// UploadID identifies one ledger row. It is stored as BINARY(16) and rendered as the
// canonical hyphenated form everywhere else.
type UploadID uuid.UUID

func NewUploadID() UploadID {
	return UploadID(uuid.New())
}

// ParseUploadID accepts the canonical text form only. The nil id never names a row.
func ParseUploadID(s string) (UploadID, error) {
	if len(s) != 36 {
		return UploadID{}, fmt.Errorf("%w: %q", ErrInvalidUploadID, s)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return UploadID{}, fmt.Errorf("%w: %q: %w", ErrInvalidUploadID, s, err)
	}
	if id == uuid.Nil {
		return UploadID{}, fmt.Errorf("%w: nil id", ErrInvalidUploadID)
	}
	return UploadID(id), nil
}

func MustParseUploadID(s string) UploadID {
	id, err := ParseUploadID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id UploadID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id UploadID) String() string {
	return uuid.UUID(id).String()
}

// Scan reads the BINARY(16) column of the uploads table.
func (id *UploadID) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("%w: expected []byte column, got %T", ErrInvalidUploadID, src)
	}
	if len(b) != 16 {
		return fmt.Errorf("%w: expected 16 bytes, got %d", ErrInvalidUploadID, len(b))
	}
	parsed, err := uuid.FromBytes(b)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUploadID, err)
	}
	*id = UploadID(parsed)
	return nil
}

// Value refuses the zero id so an unset ID never reaches the primary key.
func (id UploadID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: id is not set", ErrInvalidUploadID)
	}
	return uuid.UUID(id).MarshalBinary()
}

func (id UploadID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UploadID) UnmarshalText(text []byte) error {
	parsed, err := ParseUploadID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
