package repo

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/logger"
	"github.com/collectops/cashdesk/internal/model"
)

func newTestRepo(t *testing.T, name string) *Repository {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.Transaction{}, &model.TransactionApproval{}, &model.OutboxEvent{}))
	rdb, _ := redismock.NewClientMock()
	return NewRepository(db, rdb, nil, must(logger.NewLogger()))
}

func seedTx(t *testing.T, r *Repository, status model.TransactionStatus) *model.Transaction {
	tx := &model.Transaction{
		ID:                uuid.NewString(),
		Reference:         "TRX-2026-08-30-" + uuid.NewString()[:4],
		CreatedByUserID:   uuid.NewString(),
		DealerID:          uuid.NewString(),
		OperatorID:        uuid.NewString(),
		OperatorServiceID: uuid.NewString(),
		ServiceType:       model.ServiceAirtime,
		Amount:            decimal.NewFromInt(100),
		CurrencyID:        uuid.NewString(),
		SourceOfFunds:     "cash",
		DepositorName:     "Test Depositor",
		Status:            status,
	}
	assert.NoError(t, r.DB(context.Background()).Create(tx).Error)
	return tx
}

func TestUpdateTransaction_StaleVersionRejected(t *testing.T) {
	r := newTestRepo(t, "repo_stale")
	ctx := context.Background()
	tx := seedTx(t, r, model.StatusPending)

	updates := map[string]interface{}{"status": model.StatusValidated, "version": tx.Version + 1}
	assert.NoError(t, r.UpdateTransaction(ctx, r.DB(ctx), tx.ID, updates, tx.Version))

	// a second writer holding the old version must lose
	stale := map[string]interface{}{"status": model.StatusRejected, "version": tx.Version + 1}
	err := r.UpdateTransaction(ctx, r.DB(ctx), tx.ID, stale, tx.Version)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := r.GetTransaction(ctx, r.DB(ctx), tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusValidated, got.Status)
	assert.Equal(t, uint64(1), got.Version)
}

func TestListApprovals_PreservesAppendOrder(t *testing.T) {
	r := newTestRepo(t, "repo_order")
	ctx := context.Background()
	tx := seedTx(t, r, model.StatusPending)

	// identical timestamps: the autoincrement id must keep append order
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, action := range []model.ApprovalAction{model.ActionApprove, model.ActionApprove, model.ActionReject} {
		a := &model.TransactionApproval{
			TransactionID:  tx.ID,
			ApproverUserID: uuid.NewString(),
			ApproverRole:   string(model.RoleOfficer),
			Level:          i%2 + 1,
			Action:         action,
			CreatedAt:      ts,
		}
		assert.NoError(t, r.AppendApproval(ctx, r.DB(ctx), a))
	}

	approvals, err := r.ListApprovals(ctx, tx.ID)
	assert.NoError(t, err)
	assert.Len(t, approvals, 3)
	assert.True(t, approvals[0].ID < approvals[1].ID)
	assert.True(t, approvals[1].ID < approvals[2].ID)
	assert.Equal(t, model.ActionReject, approvals[2].Action)
}

func TestNextReference_SetsCounterExpiry(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:repo_ref?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	rdb, mock := redismock.NewClientMock()
	r := NewRepository(db, rdb, nil, must(logger.NewLogger()))

	mock.ExpectIncr("txref:2026-08-30").SetVal(1)
	mock.ExpectExpire("txref:2026-08-30", 48*time.Hour).SetVal(true)
	mock.ExpectIncr("txref:2026-08-30").SetVal(2)

	n, err := r.NextReference(context.Background(), "2026-08-30")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.NextReference(context.Background(), "2026-08-30")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRoundTrip(t *testing.T) {
	r := newTestRepo(t, "repo_outbox")
	ctx := context.Background()

	evt := &model.OutboxEvent{
		Aggregate: "Transaction", AggregateID: uuid.NewString(),
		EventType: model.EventTransactionCreated, Payload: `{"ok":true}`,
	}
	assert.NoError(t, r.CreateOutboxEvent(ctx, r.DB(ctx), evt))

	pending, err := r.PollOutbox(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	assert.NoError(t, r.MarkOutboxProcessed(ctx, pending[0].ID))
	pending, err = r.PollOutbox(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func must(l *zap.SugaredLogger, err error) *zap.SugaredLogger {
	if err != nil {
		panic(err)
	}
	return l
}
