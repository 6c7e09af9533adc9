package surveycompletion

import (
	"survey-subaccounts/internal/common/errors"
)

var sourceIDFields = []string{"locationId", "location_id"}

// ExtractSourceID returns the location id the webhook claims to come from,
// or "" when the payload carries none.
func ExtractSourceID(payload Payload) string {
	if id := firstMatch(payload, sourceIDFields, "", nil); id != "" {
		return id
	}
	if location, ok := payload.Object("location"); ok {
		if id, ok := location.Lookup("id"); ok {
			return id
		}
	}
	return ""
}

// SourceValidator accepts webhooks from the configured location ids only.
type SourceValidator struct {
	allowed []string
}

func NewSourceValidator(allowed ...string) *SourceValidator {
	return &SourceValidator{allowed: allowed}
}

// Validate returns nil for an allowed id. An empty id skips the check.
func (v *SourceValidator) Validate(sourceID string) error {
	if sourceID == "" {
		return nil
	}
	for _, id := range v.allowed {
		if sourceID == id {
			return nil
		}
	}
	return errors.NewUnauthorizedSourceError(sourceID)
}
