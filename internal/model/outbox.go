package model

import "time"

// Transaction lifecycle event types relayed to Kafka by cmd/poller.
const (
	EventTransactionCreated   = "TransactionCreated"
	EventTransactionValidated = "TransactionValidated"
	EventTransactionApproved  = "TransactionApproved"
	EventTransactionRejected  = "TransactionRejected"
)

type OutboxEvent struct {
	ID          uint64    `gorm:"primaryKey"`
	Aggregate   string    `gorm:"size:64;not null"`
	AggregateID string    `gorm:"type:uuid;not null"`
	EventType   string    `gorm:"size:64;not null"`
	Payload     string    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	Processed   bool      `gorm:"not null;default:false"`
	ProcessedAt *time.Time
}

func (OutboxEvent) TableName() string { return "event_outbox" }
