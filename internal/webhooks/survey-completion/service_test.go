package surveycompletion

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "survey-subaccounts/internal/common/errors"
	"survey-subaccounts/internal/common/ghl"
	"survey-subaccounts/internal/common/logger"
)

// ==========================
// Mocks
// ==========================

type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) CreateLocation(ctx context.Context, req *ghl.LocationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubAccountCreated(ctx context.Context, output *Output, sourceLocationID string) {
	m.Called(ctx, output, sourceLocationID)
}

// ==========================
// Helpers
// ==========================

func createValidConfig() *Config {
	cfg := DefaultConfig()
	cfg.AllowedLocationIDs = []string{"loc-primary", "loc-secondary"}
	cfg.Timeout = 5 * time.Second
	return cfg
}

func createValidPayload() Payload {
	return Payload{
		"locationId":    "loc-primary",
		"business_name": "Sunrise Wellness LLC",
		"first_name":    "Jane",
		"last_name":     "Smith",
		"email":         "jane@sunrise.example.com",
		"phone":         "+1 (555) 123-4567",
		"address":       "123 Business Street",
		"city":          "Phoenix",
		"state":         "AZ",
		"zip_code":      "85001",
		"website":       "https://sunrise.example.com",
	}
}

func newTestService(t *testing.T, crm CRMClient, notifier Notifier, cfg *Config) *Service {
	if cfg == nil {
		cfg = createValidConfig()
	}
	return NewService(ServiceDependencies{
		Logger:   logger.NewTestLogger(t),
		CRM:      crm,
		Notifier: notifier,
	}, cfg)
}

// ==========================
// Tests
// ==========================

func TestService_Execute_Success(t *testing.T) {
	crm := &MockCRMClient{}
	crm.On("CreateLocation", mock.Anything, mock.MatchedBy(func(req *ghl.LocationRequest) bool {
		return req.Name == "Sunrise Wellness LLC" &&
			req.Phone == "+15551234567" &&
			req.Country == "US" &&
			req.Timezone == "America/Phoenix" &&
			req.PostalCode == "85001" &&
			req.CompanyID == "" &&
			req.ProspectInfo == ghl.ProspectInfo{FirstName: "Jane", LastName: "Smith", Email: "jane@sunrise.example.com"} &&
			req.Settings == ghl.LocationSettings{}
	})).Return("abc123", nil)

	notifier := &MockNotifier{}
	notifier.On("NotifySubAccountCreated", mock.Anything, mock.AnythingOfType("*surveycompletion.Output"), "loc-primary").Return()

	svc := newTestService(t, crm, notifier, nil)
	output, err := svc.Execute(context.Background(), &Input{Payload: createValidPayload(), SourceLocationID: "loc-primary"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "abc123", output.SubAccountID)
	assert.Equal(t, "Sunrise Wellness LLC", output.BusinessName)
	assert.Equal(t, "Jane Smith", output.ContactName)
	assert.Equal(t, "jane@sunrise.example.com", output.Email)
	assert.Equal(t, "Sub-account created successfully from survey", output.Message)
	assert.WithinDuration(t, time.Now(), output.CreatedAt, 5*time.Second)

	crm.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Execute_UsesConfiguredDefaults(t *testing.T) {
	cfg := createValidConfig()
	cfg.CompanyID = "company-42"
	cfg.DefaultTimezone = "America/Denver"

	crm := &MockCRMClient{}
	crm.On("CreateLocation", mock.Anything, mock.MatchedBy(func(req *ghl.LocationRequest) bool {
		return req.CompanyID == "company-42" && req.Timezone == "America/Denver" && req.Phone == ""
	})).Return("loc-9", nil)

	payload := Payload{"company": "No Phone Co", "email": "a@nophone.example.com"}
	output, err := newTestService(t, crm, nil, cfg).Execute(context.Background(), &Input{Payload: payload})

	require.NoError(t, err)
	assert.Equal(t, "Contact Person", output.ContactName)
	crm.AssertExpectations(t)
}

func TestService_Execute_ValidationFailureSkipsCRM(t *testing.T) {
	crm := &MockCRMClient{}
	notifier := &MockNotifier{}

	payload := createValidPayload()
	delete(payload, "business_name")

	_, err := newTestService(t, crm, notifier, nil).Execute(context.Background(), &Input{Payload: payload})

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, http.StatusBadRequest, stdErr.HTTPStatus())
	assert.Contains(t, stdErr.Describe(), "Missing business name")

	crm.AssertNotCalled(t, "CreateLocation", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifySubAccountCreated", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_OutboundSchemaViolation(t *testing.T) {
	cfg := createValidConfig()
	cfg.DefaultTimezone = ""
	crm := &MockCRMClient{}

	_, err := newTestService(t, crm, nil, cfg).Execute(context.Background(), &Input{Payload: createValidPayload()})

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "timezone")
	crm.AssertNotCalled(t, "CreateLocation", mock.Anything, mock.Anything)
}

func TestService_Execute_LongValuesAreForwarded(t *testing.T) {
	longName := strings.Repeat("Acme ", 60) + "Holdings"
	longEmail := strings.Repeat("a", 300) + "@example.com"

	crm := &MockCRMClient{}
	crm.On("CreateLocation", mock.Anything, mock.MatchedBy(func(req *ghl.LocationRequest) bool {
		return req.Name == longName && req.ProspectInfo.Email == longEmail
	})).Return("long-1", nil)

	payload := Payload{"business_name": longName, "email": longEmail}
	output, err := newTestService(t, crm, nil, nil).Execute(context.Background(), &Input{Payload: payload})

	require.NoError(t, err)
	assert.Equal(t, "long-1", output.SubAccountID)
	assert.Equal(t, longName, output.BusinessName)
	crm.AssertExpectations(t)
}

func TestService_Execute_CRMErrors(t *testing.T) {
	tests := []struct {
		name        string
		crmErr      error
		wantCode    apperrors.ErrorCode
		wantMessage string
	}{
		{
			name:        "api rejection",
			crmErr:      &ghl.APIError{StatusCode: 422, Body: `{"message":"invalid"}`},
			wantCode:    apperrors.ErrCodeCRMAPIError,
			wantMessage: `Sub-account creation failed: 422 - {"message":"invalid"}`,
		},
		{
			name:        "transport failure",
			crmErr:      &ghl.RequestError{Err: errors.New("connection refused")},
			wantCode:    apperrors.ErrCodeCRMRequestFailed,
			wantMessage: "Error creating sub-account: connection refused",
		},
		{
			name:        "unexpected",
			crmErr:      errors.New("boom"),
			wantCode:    apperrors.ErrCodeInternal,
			wantMessage: "Survey webhook processing error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := &MockCRMClient{}
			crm.On("CreateLocation", mock.Anything, mock.Anything).Return("", tt.crmErr)
			notifier := &MockNotifier{}

			_, err := newTestService(t, crm, notifier, nil).Execute(context.Background(), &Input{Payload: createValidPayload()})

			require.Error(t, err)
			stdErr := apperrors.Normalize(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, http.StatusInternalServerError, stdErr.HTTPStatus())
			assert.Equal(t, tt.wantMessage, stdErr.Describe())
			notifier.AssertNotCalled(t, "NotifySubAccountCreated", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Execute_NoCRMConfigured(t *testing.T) {
	_, err := newTestService(t, nil, nil, nil).Execute(context.Background(), &Input{Payload: createValidPayload()})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.Normalize(err).Code)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "no sources", mutate: func(c *Config) { c.AllowedLocationIDs = nil }, wantErr: "allowed location"},
		{name: "three sources", mutate: func(c *Config) { c.AllowedLocationIDs = []string{"a", "b", "c"} }, wantErr: "at most two"},
		{name: "no country", mutate: func(c *Config) { c.Country = "" }, wantErr: "country"},
		{name: "no timezone", mutate: func(c *Config) { c.DefaultTimezone = " " }, wantErr: "default_timezone"},
		{name: "no body limit", mutate: func(c *Config) { c.MaxBodyBytes = 0 }, wantErr: "max_body_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
