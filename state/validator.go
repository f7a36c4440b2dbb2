package state

import (
	_ "embed"

	"github.com/P8labs/foxctl/validate"
)

//go:embed schema.json
var rawSchema []byte

// ValidateState checks a persisted state document before it is loaded into
// the device cache.
func ValidateState(stateBytes []byte) []error {
	return validate.Schema(rawSchema, stateBytes)
}
