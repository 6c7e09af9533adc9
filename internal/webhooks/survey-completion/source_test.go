package surveycompletion

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-subaccounts/internal/common/errors"
)

func TestExtractSourceID(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{name: "camelCase", payload: Payload{"locationId": "loc-1", "location_id": "loc-2"}, want: "loc-1"},
		{name: "snake_case", payload: Payload{"location_id": "loc-2"}, want: "loc-2"},
		{name: "nested object", payload: Payload{"location": map[string]interface{}{"id": "loc-3"}}, want: "loc-3"},
		{name: "empty top-level falls through", payload: Payload{"locationId": "", "location": map[string]interface{}{"id": "loc-4"}}, want: "loc-4"},
		{name: "location is not an object", payload: Payload{"location": "Phoenix"}, want: ""},
		{name: "absent", payload: Payload{"email": "a@b.co"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSourceID(tt.payload))
		})
	}
}

func TestSourceValidator_Validate(t *testing.T) {
	validator := NewSourceValidator("primary-loc", "secondary-loc")

	assert.NoError(t, validator.Validate(""), "absent id skips the check")
	assert.NoError(t, validator.Validate("primary-loc"))
	assert.NoError(t, validator.Validate("secondary-loc"))

	err := validator.Validate("someone-else")
	require.Error(t, err)

	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeUnauthorizedSource, stdErr.Code)
	assert.Equal(t, http.StatusForbidden, stdErr.HTTPStatus())
	assert.Contains(t, stdErr.Details, "someone-else")
}

func TestSourceValidator_IsCaseSensitive(t *testing.T) {
	validator := NewSourceValidator("Primary-Loc")
	assert.Error(t, validator.Validate("primary-loc"))
}
