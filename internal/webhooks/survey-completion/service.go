package surveycompletion

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"survey-subaccounts/internal/common/errors"
	"survey-subaccounts/internal/common/ghl"
	"survey-subaccounts/internal/common/logger"
	"survey-subaccounts/internal/common/observability"
	"survey-subaccounts/internal/common/validation"
)

const successMessage = "Sub-account created successfully from survey"

// CRMClient creates sub-accounts in the CRM.
type CRMClient interface {
	CreateLocation(ctx context.Context, req *ghl.LocationRequest) (string, error)
}

type Service struct {
	config   *Config
	logger   logger.Logger
	crm      CRMClient
	notifier Notifier
	obs      *observability.Observability
	schema   validation.JSONSchema
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Service{
		config:   config,
		logger:   log,
		crm:      deps.CRM,
		notifier: deps.Notifier,
		obs:      deps.Observability,
		schema:   GetLocationRequestSchema(),
	}
}

// Execute normalizes the payload and creates one sub-account from it.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	record, err := Normalize(input.Payload)
	if err != nil {
		var failure *ValidationFailure
		if stderrors.As(err, &failure) {
			s.logger.Error("Required field validation failed", map[string]interface{}{
				"missing":         failure.Missing,
				"availableFields": failure.AvailableFields,
			})
			return nil, errors.NewValidationFailedError(failure.Error())
		}
		return nil, errors.NewInternalError(err)
	}

	s.logger.Info("Extracted survey fields", map[string]interface{}{
		"businessName": record.BusinessName,
		"contactName":  record.ContactName(),
		"email":        record.Email,
		"matches":      record.Matches,
	})

	req := s.buildLocationRequest(record)

	if result := validation.Validate(req, s.schema); !result.Valid {
		return nil, errors.NewValidationFailedError(
			fmt.Sprintf("Sub-account request invalid: %s", strings.Join(result.GetErrorMessages(), "; ")),
		)
	}

	if s.crm == nil {
		return nil, errors.NewInternalError(fmt.Errorf("crm client not configured"))
	}

	s.logger.Info("Creating sub-account", map[string]interface{}{
		"businessName": req.Name,
		"timezone":     req.Timezone,
		"companyId":    req.CompanyID,
	})

	subAccountID, err := s.crm.CreateLocation(ctx, req)
	if err != nil {
		return nil, s.mapCRMError(err)
	}

	output := &Output{
		Success:      true,
		Message:      successMessage,
		SubAccountID: subAccountID,
		BusinessName: record.BusinessName,
		ContactName:  record.ContactName(),
		Email:        record.Email,
		CreatedAt:    time.Now().UTC(),
	}

	s.logger.Info("Sub-account created successfully", map[string]interface{}{
		"subAccountId": subAccountID,
		"businessName": record.BusinessName,
		"contactName":  output.ContactName,
	})

	s.obs.RecordSubAccountCreated(ctx, input.SourceLocationID)

	if s.notifier != nil {
		s.notifier.NotifySubAccountCreated(ctx, output, input.SourceLocationID)
	}

	return output, nil
}

func (s *Service) buildLocationRequest(record *CanonicalRecord) *ghl.LocationRequest {
	return &ghl.LocationRequest{
		Name:       record.BusinessName,
		CompanyID:  s.config.CompanyID,
		Address:    record.Address,
		City:       record.City,
		State:      record.State,
		PostalCode: record.PostalCode,
		Country:    s.config.Country,
		Phone:      FormatPhone(record.Phone),
		Website:    record.Website,
		Timezone:   s.config.DefaultTimezone,
		ProspectInfo: ghl.ProspectInfo{
			FirstName: record.FirstName,
			LastName:  record.LastName,
			Email:     record.Email,
		},
		Settings: ghl.LocationSettings{},
	}
}

func (s *Service) mapCRMError(err error) error {
	var apiErr *ghl.APIError
	if stderrors.As(err, &apiErr) {
		s.logger.Error("Sub-account creation failed", map[string]interface{}{
			"statusCode": apiErr.StatusCode,
			"body":       apiErr.Body,
		})
		return errors.NewCRMAPIError(apiErr.StatusCode, apiErr.Body)
	}

	var reqErr *ghl.RequestError
	if stderrors.As(err, &reqErr) {
		s.logger.Error("Error creating sub-account", map[string]interface{}{
			"error": reqErr.Err,
		})
		return errors.NewCRMRequestFailedError(reqErr.Err)
	}

	return errors.NewInternalError(err)
}
