package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: every
	// settlement report that discharges member obligations lands here.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers access violations and rejected operator calls.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Subject is the entity acted upon, e.g. a report ID or a block range.
	Subject  string
	Action   string
	Decision string
	Reason   string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// ActorID is the operator (or component) that triggered the action.
	ActorID string
}

type AuditEvent string

const (
	EventSettlementReportCreated  AuditEvent = "settlement_report_created"
	EventSettlementReportRejected AuditEvent = "settlement_report_rejected"
	EventSettlementPreviewed      AuditEvent = "settlement_report_previewed"
	EventMovementRejected         AuditEvent = "coin_movement_rejected"
	EventOperatorAuthFailed       AuditEvent = "operator_auth_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventSettlementReportCreated:  CategoryCompliance,
	EventSettlementReportRejected: CategoryCompliance,
	EventMovementRejected:         CategoryCompliance,

	EventOperatorAuthFailed: CategorySecurity,

	EventSettlementPreviewed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
