package surveycompletion

import (
	"context"

	"github.com/google/uuid"

	"survey-subaccounts/internal/common/logger"
)

const EventTypeSubAccountCreated = "subaccount.created"

// Notifier announces created sub-accounts. Failures never affect the webhook result.
type Notifier interface {
	NotifySubAccountCreated(ctx context.Context, output *Output, sourceLocationID string)
}

// EventPublisher is satisfied by aws.SNSClient.
type EventPublisher interface {
	PublishJSON(ctx context.Context, eventType string, payload interface{}) (string, error)
}

type SNSNotifier struct {
	publisher EventPublisher
	logger    logger.Logger
}

func NewSNSNotifier(publisher EventPublisher, log logger.Logger) *SNSNotifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SNSNotifier{publisher: publisher, logger: log}
}

func (n *SNSNotifier) NotifySubAccountCreated(ctx context.Context, output *Output, sourceLocationID string) {
	event := &SubAccountCreatedEvent{
		EventID:          uuid.NewString(),
		EventType:        EventTypeSubAccountCreated,
		SubAccountID:     output.SubAccountID,
		BusinessName:     output.BusinessName,
		Email:            output.Email,
		SourceLocationID: sourceLocationID,
		CreatedAt:        output.CreatedAt,
	}

	messageID, err := n.publisher.PublishJSON(ctx, event.EventType, event)
	if err != nil {
		n.logger.Warn("Failed to publish sub-account notification", map[string]interface{}{
			"eventId":      event.EventID,
			"subAccountId": event.SubAccountID,
			"error":        err.Error(),
		})
		return
	}

	n.logger.Info("Published sub-account notification", map[string]interface{}{
		"eventId":      event.EventID,
		"messageId":    messageID,
		"subAccountId": event.SubAccountID,
	})
}
