package upload

import (
	"errors"

	"github.com/fhuszti/upload-relay-go/internal/keygen"
	"github.com/fhuszti/upload-relay-go/internal/session"
)

// State is where a relay ended up.
type State string

const (
	StateAwaitingFile State = "awaiting_file"
	StateDeriving     State = "deriving"
	StateStoring      State = "storing"
	StateSigning      State = "signing"
	StateNotifying    State = "notifying"
	StateResponding   State = "responding"

	StateRejectedNoFile          State = "rejected_no_file"
	StateRejectedUnauthenticated State = "rejected_unauthenticated"
	StateFailedStorage           State = "failed_storage"
	StateFailedSigning           State = "failed_signing"
	StateFailedConfiguration     State = "failed_configuration"
)

// StateOf maps a Relay error onto its terminal state.
func StateOf(err error) State {
	switch {
	case err == nil:
		return StateResponding
	case errors.Is(err, session.ErrUnauthenticated):
		return StateRejectedUnauthenticated
	case errors.Is(err, ErrNoFile), errors.Is(err, keygen.ErrInvalidFilename):
		return StateRejectedNoFile
	case errors.Is(err, ErrConfiguration):
		return StateFailedConfiguration
	case errors.Is(err, ErrSigning):
		return StateFailedSigning
	default:
		return StateFailedStorage
	}
}
