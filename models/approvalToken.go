package models

import "time"

// Target types an approval link can point at.
const (
	ApprovalTargetRequest      = "request"
	ApprovalTargetUpdate       = "update"
	ApprovalTargetDeletion     = "deletion"
	ApprovalTargetStatusChange = "status_change"
	ApprovalTargetPreference   = "preference"
)

type ApprovalToken struct {
	Approval_Token_ID int       `json:"approvalTokenId" db:"approval_token_id" goqu:"skipinsert"`
	Token             string    `json:"token" db:"token"`
	Target_Type       string    `json:"targetType" db:"target_type"`
	Target_ID         int       `json:"targetId" db:"target_id"`
	Expires_At        time.Time `json:"expiresAt" db:"expires_at"`
	Used              bool      `json:"used" db:"used"`
	Attempts          int       `json:"attempts" db:"attempts"`
	Created_By        int       `json:"createdBy" db:"created_by"`
	Created_At        time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
}

type ApprovalActionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve deny"`
	Reason string `json:"reason"`
}
