package surveycompletion

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"survey-subaccounts/internal/common/config"
	"survey-subaccounts/internal/common/errors"
	"survey-subaccounts/internal/common/logger"
	"survey-subaccounts/internal/common/metrics"
	"survey-subaccounts/internal/common/observability"
)

const Route = "/webhook/survey-completion"

type executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	service      executor
	sources      *SourceValidator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	CRM           CRMClient
	Notifier      Notifier
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	handlerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := handlerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for survey-completion: %w", err)
	}
	if opts.CRM == nil {
		return nil, fmt.Errorf("survey-completion requires a CRM client")
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.Named("survey-completion")

	handler := &Handler{
		config:       handlerConfig,
		logger:       loggerInstance,
		sources:      NewSourceValidator(handlerConfig.AllowedLocationIDs...),
		errorHandler: errors.NewErrorHandler(loggerInstance),
		obs:          opts.Observability,
	}

	handler.service = NewService(ServiceDependencies{
		Logger:        loggerInstance,
		CRM:           opts.CRM,
		Notifier:      opts.Notifier,
		Observability: opts.Observability,
	}, handlerConfig)

	return handler, nil
}

// Register mounts the webhook route unless the handler is disabled.
func (h *Handler) Register(mux *http.ServeMux) {
	if !h.config.Enabled {
		h.logger.Info("Survey completion webhook disabled, skipping registration", nil)
		return
	}
	mux.Handle("POST "+Route, h)
	h.logger.Info("Survey completion webhook registered", map[string]interface{}{
		"route":          Route,
		"allowedSources": len(h.config.AllowedLocationIDs),
		"authEnabled":    h.config.AuthToken != "",
		"timeout":        h.config.Timeout.String(),
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	metrics.WebhooksActive.Inc()
	defer metrics.WebhooksActive.Dec()

	h.logger.Info("Survey completion webhook received", map[string]interface{}{
		"remoteAddr":  r.RemoteAddr,
		"contentType": r.Header.Get("Content-Type"),
	})

	if err := h.authorize(r); err != nil {
		h.fail(w, r, err, startTime)
		return
	}

	payload, err := h.parsePayload(w, r)
	if err != nil {
		h.fail(w, r, err, startTime)
		return
	}

	sourceID := ExtractSourceID(payload)
	if sourceID == "" {
		h.logger.Warn("Webhook carries no source location id, skipping source check", nil)
	} else if err := h.sources.Validate(sourceID); err != nil {
		h.fail(w, r, err, startTime)
		return
	}

	eventType := firstMatch(payload, []string{"type", "event"}, "", nil)
	surveyID := firstMatch(payload, []string{"formId", "survey_id", "id"}, "", nil)
	h.logger.Info("Processing survey completion", map[string]interface{}{
		"eventType":        eventType,
		"surveyId":         surveyID,
		"sourceLocationId": sourceID,
		"fields":           payload.Keys(),
	})

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.service.Execute(ctx, &Input{Payload: payload, SourceLocationID: sourceID})
	if err != nil {
		h.fail(w, r, err, startTime)
		return
	}

	h.record(r.Context(), "success", startTime)

	errors.WriteJSON(w, http.StatusOK, SuccessResponse{
		Output:    output,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) authorize(r *http.Request) error {
	if h.config.AuthToken == "" {
		return nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return errors.NewUnauthorizedError("missing Authorization header")
	}

	expected := "Bearer " + h.config.AuthToken
	if subtle.ConstantTimeCompare([]byte(header), []byte(expected)) != 1 {
		return errors.NewUnauthorizedError("invalid webhook token")
	}
	return nil
}

func (h *Handler) parsePayload(w http.ResponseWriter, r *http.Request) (Payload, error) {
	body := http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	defer body.Close()

	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.Is(err, io.EOF):
			return nil, errors.NewInvalidPayloadError("No JSON payload")
		case stderrors.As(err, &maxErr):
			return nil, errors.NewInvalidPayloadError(fmt.Sprintf("body exceeds %d bytes", maxErr.Limit))
		default:
			return nil, errors.NewInvalidPayloadError(fmt.Sprintf("malformed JSON: %v", err))
		}
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.NewInvalidPayloadError("payload must be a JSON object")
	}
	if len(obj) == 0 {
		return nil, errors.NewInvalidPayloadError("No JSON payload")
	}

	return Payload(obj), nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, startTime time.Time) {
	stdErr := errors.Normalize(err)
	outcome := "rejected"
	if stdErr.HTTPStatus() >= http.StatusInternalServerError {
		outcome = "failed"
	}
	h.record(r.Context(), outcome, startTime)
	h.errorHandler.HandleHTTPError(w, r, stdErr)
}

func (h *Handler) record(ctx context.Context, outcome string, startTime time.Time) {
	elapsed := time.Since(startTime)
	metrics.WebhooksReceived.WithLabelValues(outcome).Inc()
	metrics.WebhookDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	h.obs.RecordWebhookProcessed(ctx, outcome)
	h.obs.RecordWebhookDuration(ctx, elapsed, outcome)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
