package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/collectops/cashdesk/internal/model"
)

func validCreateRequest() CreateTransactionRequest {
	return CreateTransactionRequest{
		CreatedByUserID:   uuid.NewString(),
		DealerID:          uuid.NewString(),
		OperatorID:        uuid.NewString(),
		OperatorServiceID: uuid.NewString(),
		ServiceType:       model.ServiceMobileMoney,
		Amount:            decimal.NewFromInt(5000),
		CurrencyID:        uuid.NewString(),
		SourceOfFunds:     "shop takings",
		DepositorName:     "Awa Diallo",
	}
}

func expectReference(env *testEnv, seq int64) string {
	day := time.Now().UTC().Format("2006-01-02")
	key := "txref:" + day
	env.redisMock.ExpectIncr(key).SetVal(seq)
	if seq == 1 {
		env.redisMock.ExpectExpire(key, 48*time.Hour).SetVal(true)
	}
	return fmt.Sprintf("TRX-%s-%04d", day, seq)
}

func TestCreateTransaction(t *testing.T) {
	env, ctx := newTestEnv(t)
	wantRef := expectReference(env, 1)

	tx, err := env.txs.Create(ctx, validCreateRequest())
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, tx.Status)
	assert.Equal(t, uint64(0), tx.Version)
	assert.Equal(t, wantRef, tx.Reference)

	// fresh transactions carry no approvals
	approvals, err := env.approvals.ListApprovals(ctx, tx.ID)
	assert.NoError(t, err)
	assert.Empty(t, approvals)

	var evts []model.OutboxEvent
	assert.NoError(t, env.db.Where("aggregate_id = ?", tx.ID).Find(&evts).Error)
	assert.Len(t, evts, 1)
	assert.Equal(t, model.EventTransactionCreated, evts[0].EventType)
}

func TestCreateTransaction_ReferenceIsMonotonicWithinDay(t *testing.T) {
	env, ctx := newTestEnv(t)
	first := expectReference(env, 1)
	second := expectReference(env, 2)

	tx1, err := env.txs.Create(ctx, validCreateRequest())
	assert.NoError(t, err)
	tx2, err := env.txs.Create(ctx, validCreateRequest())
	assert.NoError(t, err)

	assert.Equal(t, first, tx1.Reference)
	assert.Equal(t, second, tx2.Reference)
	assert.NotEqual(t, tx1.Reference, tx2.Reference)
}

func TestCreateTransaction_Validation(t *testing.T) {
	env, ctx := newTestEnv(t)

	bad := validCreateRequest()
	bad.Amount = decimal.Zero
	_, err := env.txs.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = validCreateRequest()
	bad.Amount = decimal.NewFromInt(-10)
	_, err = env.txs.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = validCreateRequest()
	bad.ServiceType = "LOTTERY"
	_, err = env.txs.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = validCreateRequest()
	bad.DealerID = ""
	_, err = env.txs.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = validCreateRequest()
	bad.DepositorName = "  "
	_, err = env.txs.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	// nothing was persisted
	var n int64
	assert.NoError(t, env.db.Model(&model.Transaction{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestGetTransaction_NotFound(t *testing.T) {
	env, ctx := newTestEnv(t)
	_, err := env.txs.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTransactions_SearchAndStatus(t *testing.T) {
	env, ctx := newTestEnv(t)
	pending := env.seedTransaction(t, model.StatusPending)
	env.seedTransaction(t, model.StatusApproved)

	items, total, err := env.txs.List(ctx, TransactionFilters{Status: model.StatusPending, Page: 1, PageSize: 10})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
	assert.Equal(t, pending.ID, items[0].ID)

	items, total, err = env.txs.List(ctx, TransactionFilters{Search: "john", Page: 1, PageSize: 10})
	assert.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = env.txs.List(ctx, TransactionFilters{Search: "no-such-depositor"})
	assert.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)
}

func TestListTransactions_Pagination(t *testing.T) {
	env, ctx := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.seedTransaction(t, model.StatusPending)
	}

	items, total, err := env.txs.List(ctx, TransactionFilters{Page: 2, PageSize: 2})
	assert.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 2)
}

func TestDashboardStats(t *testing.T) {
	env, ctx := newTestEnv(t)
	env.seedTransaction(t, model.StatusPending)
	env.seedTransaction(t, model.StatusApproved)
	env.seedTransaction(t, model.StatusRejected)

	st, err := env.txs.Stats(ctx)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, st.TotalTransactions)
	assert.EqualValues(t, 1, st.PendingTransactions)
	assert.EqualValues(t, 1, st.ApprovedTransactions)
	assert.EqualValues(t, 1, st.RejectedTransactions)
	assert.Equal(t, "15000", st.TotalAmount.StringFixed(0))
}
