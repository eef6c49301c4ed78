package models

import "time"

type AdminRequestStatus string

const (
	AdminRequestPending  AdminRequestStatus = "PENDING"
	AdminRequestApproved AdminRequestStatus = "APPROVED"
	AdminRequestRejected AdminRequestStatus = "REJECTED"
)

// AdminRequest терминален после APPROVED/REJECTED.
type AdminRequest struct {
	ID          int                `json:"id"`
	UserID      int                `json:"user_id"`
	Status      AdminRequestStatus `json:"status"`
	RequestedAt time.Time          `json:"requested_at"`
	ReviewedBy  *int               `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	Reason      *string            `json:"reason,omitempty"`

	User *Profile `json:"user,omitempty"`
}
