package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a cash-collection transaction.
// PROCESSED, NOTIFIED, COMPLETED and RETURNED belong to downstream posting and
// notification stages; the approval workflow never produces them.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusValidated TransactionStatus = "VALIDATED"
	StatusApproved  TransactionStatus = "APPROVED"
	StatusProcessed TransactionStatus = "PROCESSED"
	StatusNotified  TransactionStatus = "NOTIFIED"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusRejected  TransactionStatus = "REJECTED"
	StatusReturned  TransactionStatus = "RETURNED"
)

// ServiceType identifies which telco product a transaction funds.
type ServiceType string

const (
	ServiceAirtime     ServiceType = "AIRTIME"
	ServiceMobileMoney ServiceType = "MOBILE_MONEY"
	ServiceSIMCard     ServiceType = "SIM_CARD"
	ServiceOther       ServiceType = "OTHER"
)

// ValidServiceType reports whether s is one of the known service types.
func ValidServiceType(s ServiceType) bool {
	switch s {
	case ServiceAirtime, ServiceMobileMoney, ServiceSIMCard, ServiceOther:
		return true
	}
	return false
}

// Transaction is the unit of work moving through the approval pipeline.
// Status is only ever changed by the approval service; Version is checked and
// incremented on every state-changing save.
type Transaction struct {
	ID                string            `gorm:"type:uuid;primaryKey" json:"id"`
	Reference         string            `gorm:"size:32;not null;uniqueIndex" json:"reference"`
	CreatedByUserID   string            `gorm:"type:uuid;not null" json:"created_by_user_id"`
	OriginDeviceID    *string           `gorm:"type:uuid" json:"origin_device_id,omitempty"`
	AgentID           *string           `gorm:"type:uuid" json:"agent_id,omitempty"`
	DealerID          string            `gorm:"type:uuid;not null;index" json:"dealer_id"`
	SubDealerID       *string           `gorm:"type:uuid" json:"sub_dealer_id,omitempty"`
	OperatorID        string            `gorm:"type:uuid;not null" json:"operator_id"`
	OperatorServiceID string            `gorm:"type:uuid;not null" json:"operator_service_id"`
	ServiceType       ServiceType       `gorm:"size:32;not null" json:"service_type"`
	Amount            decimal.Decimal   `gorm:"type:numeric(20,2);not null" json:"amount"`
	CurrencyID        string            `gorm:"type:uuid;not null" json:"currency_id"`
	PhoneNumber       *string           `gorm:"size:32" json:"phone_number,omitempty"`
	SourceOfFunds     string            `gorm:"size:255;not null" json:"source_of_funds"`
	DepositorName     string            `gorm:"size:255;not null" json:"depositor_name"`
	Status            TransactionStatus `gorm:"size:16;not null;index" json:"status"`
	StatusReason      *string           `gorm:"size:255" json:"status_reason,omitempty"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	RejectedAt        *time.Time        `json:"rejected_at,omitempty"`
	Version           uint64            `gorm:"not null;default:0" json:"version"`
	CreatedAt         time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	Dealer          *Dealer          `gorm:"foreignKey:DealerID" json:"dealer,omitempty"`
	SubDealer       *SubDealer       `gorm:"foreignKey:SubDealerID" json:"sub_dealer,omitempty"`
	Agent           *Agent           `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Operator        *TelcoOperator   `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	OperatorService *OperatorService `gorm:"foreignKey:OperatorServiceID" json:"operator_service,omitempty"`
	Currency        *Currency        `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}

func (Transaction) TableName() string { return "transaction" }

// Terminal reports whether no further approval action is valid.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusProcessed, StatusNotified, StatusCompleted, StatusRejected, StatusReturned:
		return true
	}
	return false
}

// ApprovalAction is the decision recorded by one approval step.
// RETURN_FOR_REVIEW is reserved for a future re-work loop.
type ApprovalAction string

const (
	ActionApprove         ApprovalAction = "APPROVE"
	ActionReject          ApprovalAction = "REJECT"
	ActionReturnForReview ApprovalAction = "RETURN_FOR_REVIEW"
)

// TransactionApproval is one immutable audit record of an approval or
// rejection. Rows are append-only; the autoincrement ID preserves insertion
// order as the tie-break after CreatedAt.
type TransactionApproval struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	TransactionID  string         `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ApproverUserID string         `gorm:"type:uuid;not null" json:"approver_user_id"`
	ApproverRole   string         `gorm:"size:32;not null" json:"approver_role"`
	Level          int            `gorm:"not null" json:"level"`
	Action         ApprovalAction `gorm:"size:32;not null" json:"action"`
	Comment        *string        `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (TransactionApproval) TableName() string { return "transaction_approval" }
