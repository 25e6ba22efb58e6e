package domain

import "time"

// Audit actions recorded for mutating admin operations.
const (
	AuditMemberCreated   = "member.created"
	AuditMemberUpdated   = "member.updated"
	AuditMemberDeleted   = "member.deleted"
	AuditDocumentAdded   = "document.uploaded"
	AuditDocumentDeleted = "document.deleted"
)

// AuditEntry records a single mutating action performed through the gateway.
type AuditEntry struct {
	ID        string    `json:"id,omitempty"`
	Actor     string    `json:"actor"`
	ActorName string    `json:"actorName,omitempty"`
	Action    string    `json:"action"`
	TargetID  string    `json:"targetId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
