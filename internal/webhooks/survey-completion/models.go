package surveycompletion

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"survey-subaccounts/internal/common/logger"
	"survey-subaccounts/internal/common/observability"
)

// Payload is a decoded webhook body. Keys vary between snake_case, camelCase
// and form labels, so values are read through Lookup rather than a struct.
type Payload map[string]interface{}

// Lookup returns the trimmed scalar value stored under key. Objects, arrays,
// null and missing keys all report false.
func (p Payload) Lookup(key string) (string, bool) {
	raw, ok := p[key]
	if !ok {
		return "", false
	}
	return scalarString(raw)
}

// Object returns the nested object stored under key.
func (p Payload) Object(key string) (Payload, bool) {
	obj, ok := p[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Payload(obj), true
}

// Keys returns the payload keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// CanonicalRecord is the normalized business and contact data extracted from a payload.
type CanonicalRecord struct {
	BusinessName string
	FirstName    string
	LastName     string
	Email        string
	Phone        string // digits only, without the +1 prefix
	Address      string
	City         string
	State        string
	PostalCode   string
	Website      string

	// Matches maps each canonical field to the payload key it was read from.
	Matches map[string]string
}

func (r *CanonicalRecord) ContactName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

type Input struct {
	Payload          Payload
	SourceLocationID string
}

type Output struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	SubAccountID string    `json:"sub_account_id"`
	BusinessName string    `json:"business_name"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// SuccessResponse is the body returned for a created sub-account.
type SuccessResponse struct {
	*Output
	Timestamp string `json:"timestamp"`
}

// SubAccountCreatedEvent is published after a sub-account is created.
type SubAccountCreatedEvent struct {
	EventID          string    `json:"eventId"`
	EventType        string    `json:"eventType"`
	SubAccountID     string    `json:"subAccountId"`
	BusinessName     string    `json:"businessName"`
	Email            string    `json:"email"`
	SourceLocationID string    `json:"sourceLocationId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	CRM           CRMClient
	Notifier      Notifier
	Observability *observability.Observability
}
