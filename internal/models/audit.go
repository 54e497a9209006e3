// internal/models/audit.go
package models

// AuditLog records a mutating API call.
type AuditLog struct {
	BaseModel
	ActorID      *uint  `json:"actor_id" gorm:"index"`
	ActorRole    string `json:"actor_role" gorm:"size:20"`
	RequestID    string `json:"request_id" gorm:"size:36;index"`
	Action       string `json:"action" gorm:"size:100;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string `json:"resource_id" gorm:"size:50"`
	Status       int    `json:"status"`
	NewValues    JSONB  `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}
