package audit

import (
	"time"
)

// Entry records one mutating operation against a flow configuration or the
// settings document: who performed it, at what access level, and the payload
// that was written. Reads are not audited.
// Collection: audit_logs
type Entry struct {
	ID          string    `bson:"_id" json:"id"`
	EntityType  string    `bson:"entityType" json:"entityType"`                   // "FlowConfig" or "Settings"
	EntityID    string    `bson:"entityId,omitempty" json:"entityId,omitempty"`   // config id, or the settings item id
	Operation   string    `bson:"operation" json:"operation"`                     // e.g. "SaveFlowConfig", "DeleteFlowConfig"
	PayloadJSON string    `bson:"payloadJson,omitempty" json:"payloadJson,omitempty"`
	Actor       string    `bson:"actor,omitempty" json:"actor,omitempty"`         // token username or subject
	AccessLevel string    `bson:"accessLevel,omitempty" json:"accessLevel,omitempty"`
	PerformedAt time.Time `bson:"performedAt" json:"performedAt"`
}

// Entity type constants
const (
	EntityTypeFlowConfig = "FlowConfig"
	EntityTypeSettings   = "Settings"
)

// Operation name constants
const (
	OperationSaveFlowConfig   = "SaveFlowConfig"
	OperationDeleteFlowConfig = "DeleteFlowConfig"
	OperationUpdateSettings   = "UpdateSettings"
)
