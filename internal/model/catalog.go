package model

import "time"

type DealerType string

const (
	DealerDistributor DealerType = "DISTRIBUTOR"
	DealerReseller    DealerType = "RESELLER"
	DealerAgent       DealerType = "AGENT"
	DealerOther       DealerType = "OTHER"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCVerified KYCStatus = "VERIFIED"
	KYCRejected KYCStatus = "REJECTED"
)

type AgentStatus string

const (
	AgentActive   AgentStatus = "ACTIVE"
	AgentInactive AgentStatus = "INACTIVE"
)

// Zone is a geographic collection area; zones may nest one level deep.
type Zone struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Code         string     `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name         string     `gorm:"size:128;not null" json:"name"`
	ParentZoneID *string    `gorm:"type:uuid" json:"parent_zone_id,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	ParentZone *Zone `gorm:"foreignKey:ParentZoneID" json:"parent_zone,omitempty"`
}

func (Zone) TableName() string { return "zone" }

// TelcoOperator is a telecommunications provider whose services transactions fund.
type TelcoOperator struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string     `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name              string     `gorm:"size:128;not null" json:"name"`
	ContractReference *string    `gorm:"size:64" json:"contract_reference,omitempty"`
	CommissionAccount *string    `gorm:"size:64" json:"commission_account,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

func (TelcoOperator) TableName() string { return "telco_operator" }

// OperatorService is one product an operator offers (airtime, mobile money, ...).
type OperatorService struct {
	ID             string      `gorm:"type:uuid;primaryKey" json:"id"`
	OperatorID     string      `gorm:"type:uuid;not null;index" json:"operator_id"`
	ServiceType    ServiceType `gorm:"size:32;not null" json:"service_type"`
	ServiceAccount string      `gorm:"size:64;not null" json:"service_account"`
	Code           *string     `gorm:"size:32" json:"code,omitempty"`
	DisplayName    *string     `gorm:"size:128" json:"display_name,omitempty"`
	IsEnabled      bool        `gorm:"not null;default:true" json:"is_enabled"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time  `json:"updated_at,omitempty"`

	Operator *TelcoOperator `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

func (OperatorService) TableName() string { return "operator_service" }

// Dealer is a distribution point through which transactions originate.
type Dealer struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Type              DealerType `gorm:"size:32;not null" json:"type"`
	Name              string     `gorm:"size:128;not null" json:"name"`
	ZoneID            string     `gorm:"type:uuid;not null;index" json:"zone_id"`
	AccountNumber     string     `gorm:"size:64;not null" json:"account_number"`
	KYCStatus         KYCStatus  `gorm:"size:16;not null;column:kyc_status" json:"kyc_status"`
	ContractReference *string    `gorm:"size:64" json:"contract_reference,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`

	Zone *Zone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

func (Dealer) TableName() string { return "dealer" }

// SubDealer hangs off a parent dealer.
type SubDealer struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	ParentDealerID string    `gorm:"type:uuid;not null;index" json:"parent_dealer_id"`
	KYCReference   *string   `gorm:"size:64;column:kyc_reference" json:"kyc_reference,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	ParentDealer *Dealer `gorm:"foreignKey:ParentDealerID" json:"parent_dealer,omitempty"`
}

func (SubDealer) TableName() string { return "sub_dealer" }

// Agent is a field collector assigned to a zone.
type Agent struct {
	ID                string      `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string      `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name              string      `gorm:"size:128;not null" json:"name"`
	ZoneID            string      `gorm:"type:uuid;not null;index" json:"zone_id"`
	UserID            *string     `gorm:"type:uuid" json:"user_id,omitempty"`
	Status            AgentStatus `gorm:"size:16;not null" json:"status"`
	AccountNumber     string      `gorm:"size:64;not null" json:"account_number"`
	ContractReference *string     `gorm:"size:64" json:"contract_reference,omitempty"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at,omitempty"`

	Zone *Zone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

func (Agent) TableName() string { return "agent" }

type Currency struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Code     string `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Name     string `gorm:"size:64;not null" json:"name"`
	Symbol   string `gorm:"size:8;not null" json:"symbol"`
	Decimals int    `gorm:"not null;default:2" json:"decimals"`
}

func (Currency) TableName() string { return "currency" }
