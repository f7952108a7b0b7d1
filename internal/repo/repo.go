package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/model"
)

// ErrVersionConflict is returned when a transaction save loses an optimistic
// concurrency race; the caller must re-fetch and reapply.
var ErrVersionConflict = errors.New("transaction version conflict")

const referenceTTL = 48 * time.Hour

// RepositoryInterface restricts Repo methods so services can be unit tested
// against a narrow contract.
type RepositoryInterface interface {
	DB(ctx context.Context) *gorm.DB
	GetTransaction(ctx context.Context, tx *gorm.DB, id string) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	UpdateTransaction(ctx context.Context, tx *gorm.DB, id string, updates map[string]interface{}, oldVersion uint64) error
	AppendApproval(ctx context.Context, tx *gorm.DB, a *model.TransactionApproval) error
	ListApprovals(ctx context.Context, transactionID string) ([]model.TransactionApproval, error)
	NextReference(ctx context.Context, day string) (int64, error)
	CreateOutboxEvent(ctx context.Context, tx *gorm.DB, evt *model.OutboxEvent) error
	PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkOutboxProcessed(ctx context.Context, id uint64) error
	PublishEvent(ctx context.Context, evt model.OutboxEvent) error
	CacheStats(ctx context.Context, payload string, ttl time.Duration) error
	GetCachedStats(ctx context.Context) (string, error)
}

// Repository implements RepositoryInterface.
type Repository struct {
	db     *gorm.DB
	rdb    *redis.Client
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

// NewRepository constructs repo.
func NewRepository(db *gorm.DB, rdb *redis.Client, w *kafka.Writer, logger *zap.SugaredLogger) *Repository {
	return &Repository{db: db, rdb: rdb, writer: w, log: logger}
}

// DB returns underlying *gorm.DB
func (r *Repository) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// GetTransaction fetches one transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, tx *gorm.DB, id string) (*model.Transaction, error) {
	var t model.Transaction
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTransaction inserts a new transaction row.
func (r *Repository) CreateTransaction(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

// UpdateTransaction applies a status-changing update with an optimistic
// version check. The caller supplies the new version inside updates; the
// write is rejected when the stored version has advanced since read.
func (r *Repository) UpdateTransaction(ctx context.Context, tx *gorm.DB, id string, updates map[string]interface{}, oldVersion uint64) error {
	res := tx.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND version = ?", id, oldVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// AppendApproval writes one immutable approval record.
func (r *Repository) AppendApproval(ctx context.Context, tx *gorm.DB, a *model.TransactionApproval) error {
	return tx.WithContext(ctx).Create(a).Error
}

// ListApprovals returns a transaction's approval trail, oldest first.
// The autoincrement id is the secondary sort key so equal timestamps keep
// append order.
func (r *Repository) ListApprovals(ctx context.Context, transactionID string) ([]model.TransactionApproval, error) {
	var approvals []model.TransactionApproval
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at asc").Order("id asc").
		Find(&approvals).Error
	return approvals, err
}

// NextReference allocates the next per-day reference sequence number via a
// Redis counter. The key expires two days after first use.
func (r *Repository) NextReference(ctx context.Context, day string) (int64, error) {
	key := fmt.Sprintf("txref:%s", day)
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.rdb.Expire(ctx, key, referenceTTL).Err(); err != nil {
			r.log.Warnf("expire %s: %v", key, err)
		}
	}
	return n, nil
}

// CreateOutboxEvent writes event.
func (r *Repository) CreateOutboxEvent(ctx context.Context, tx *gorm.DB, evt *model.OutboxEvent) error {
	return tx.WithContext(ctx).Create(evt).Error
}

// PollOutbox pulls unprocessed events.
func (r *Repository) PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var evts []model.OutboxEvent
	err := r.db.WithContext(ctx).Where("processed=false").Order("created_at").Limit(limit).Find(&evts).Error
	return evts, err
}

// MarkOutboxProcessed sets processed flag.
func (r *Repository) MarkOutboxProcessed(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id=?", id).
		Updates(map[string]interface{}{"processed": true, "processed_at": &now}).Error
}

// PublishEvent sends to Kafka.
func (r *Repository) PublishEvent(ctx context.Context, evt model.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(evt.AggregateID),
		Value: []byte(evt.Payload),
		Time:  time.Now(),
	}
	return r.writer.WriteMessages(ctx, msg)
}

// CacheStats stores the serialized dashboard snapshot.
func (r *Repository) CacheStats(ctx context.Context, payload string, ttl time.Duration) error {
	return r.rdb.Set(ctx, "dashboard:stats", payload, ttl).Err()
}

// GetCachedStats reads the dashboard snapshot.
func (r *Repository) GetCachedStats(ctx context.Context) (string, error) {
	return r.rdb.Get(ctx, "dashboard:stats").Result()
}
