package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventSuggestionCreated      EventType = "suggestion.created"
	EventSuggestionApproved     EventType = "suggestion.approved"
	EventSuggestionRejected     EventType = "suggestion.rejected"
	EventEditSuggestionCreated  EventType = "edit_suggestion.created"
	EventEditSuggestionApproved EventType = "edit_suggestion.approved"
	EventEditSuggestionRejected EventType = "edit_suggestion.rejected"
	EventReportCreated          EventType = "report.created"
	EventReportResolved         EventType = "report.resolved"
	EventReportDismissed        EventType = "report.dismissed"
	EventBanCreated             EventType = "ban.created"
	EventBanLifted              EventType = "ban.lifted"
	EventPhotoDeleted           EventType = "photo.deleted"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateSuggestion AggregateType = "suggestion"
	AggregateReport     AggregateType = "report"
	AggregateBan        AggregateType = "ban"
	AggregatePhoto      AggregateType = "photo"
)

// OutboxDraft is the payload written to the event_outbox table. Drafts are
// inserted in the same transaction as the write that produced them; the
// poller publishes and marks them after the fact.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewModerationEvent builds an outbox draft for a moderation lifecycle event.
func NewModerationEvent(agg AggregateType, aggregateID uuid.UUID, evt EventType, payload interface{}) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggregateID.String(),
		EventType:     evt,
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}
