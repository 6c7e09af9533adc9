// Package diagnostics serves the side-effect free test, health and readiness endpoints.
package diagnostics

import (
	"net/http"
	"strings"
	"time"

	"survey-subaccounts/internal/common/errors"
	"survey-subaccounts/internal/common/logger"
	surveycompletion "survey-subaccounts/internal/webhooks/survey-completion"
)

const (
	TestRoute   = "/webhook/test"
	HealthRoute = "/health"
	ReadyRoute  = "/ready"
)

type Options struct {
	AccountName string
	LocationID  string
	Logger      logger.Logger
}

type Handler struct {
	accountName string
	locationID  string
	logger      logger.Logger
	now         func() time.Time
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		accountName: opts.AccountName,
		locationID:  opts.LocationID,
		logger:      log.Named("diagnostics"),
		now:         time.Now,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+TestRoute, h.TestStatus)
	mux.HandleFunc("POST "+TestRoute, h.TestSample)
	mux.HandleFunc("GET "+HealthRoute, h.Health)
	mux.HandleFunc("GET "+ReadyRoute, h.Ready)
}

type TestStatusResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Endpoints  map[string]string `json:"endpoints"`
	Account    string            `json:"account"`
	LocationID string            `json:"location_id"`
}

type TestSampleResponse struct {
	Message       string                 `json:"message"`
	SamplePayload map[string]interface{} `json:"sample_payload"`
	Note          string                 `json:"note"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Service    string `json:"service"`
	Account    string `json:"account"`
	LocationID string `json:"location_id"`
}

func (h *Handler) TestStatus(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, TestStatusResponse{
		Status:    slug(h.accountName) + "_survey_webhook_active",
		Timestamp: h.timestamp(),
		Endpoints: map[string]string{
			"survey_completion": surveycompletion.Route,
			"test":              TestRoute,
			"health":            HealthRoute,
		},
		Account:    h.accountLabel(),
		LocationID: h.locationID,
	})
}

// TestSample echoes a representative survey payload. Nothing is created.
func (h *Handler) TestSample(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Test webhook triggered with sample survey data", nil)

	errors.WriteJSON(w, http.StatusOK, TestSampleResponse{
		Message: "Test webhook received",
		SamplePayload: map[string]interface{}{
			"event":       "survey_completion",
			"timestamp":   h.timestamp(),
			"survey_id":   "test_survey_123",
			"location_id": h.locationID,
			"survey_data": map[string]interface{}{
				"first_name":       "Test",
				"last_name":        "Business",
				"email":            "test@testbusiness.com",
				"phone":            "+1234567890",
				"business_name":    "Test Business LLC",
				"website":          "https://testbusiness.com",
				"address":          "123 Business Street",
				"city":             "Phoenix",
				"state":            "AZ",
				"zip_code":         "85001",
				"service_interest": "premium_package",
			},
		},
		Note: "Use POST " + surveycompletion.Route + " with real survey data for actual processing",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Timestamp:  h.timestamp(),
		Service:    h.accountName + " Survey Webhook Handler",
		Account:    h.accountLabel(),
		LocationID: h.locationID,
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   h.timestamp(),
	})
}

func (h *Handler) accountLabel() string {
	return h.accountName + " Only"
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// slug lowercases name and joins its words with underscores.
func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
