package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/repo"
)

const statsTTL = time.Minute

// TransactionService creates and reads transactions. Status changes go
// through ApprovalService only.
type TransactionService struct {
	repo repo.RepositoryInterface
	log  *zap.SugaredLogger
}

// NewTransactionService returns TransactionService.
func NewTransactionService(r repo.RepositoryInterface, logger *zap.SugaredLogger) *TransactionService {
	return &TransactionService{repo: r, log: logger}
}

type CreateTransactionRequest struct {
	CreatedByUserID   string
	DealerID          string
	SubDealerID       *string
	AgentID           *string
	OriginDeviceID    *string
	OperatorID        string
	OperatorServiceID string
	ServiceType       model.ServiceType
	Amount            decimal.Decimal
	CurrencyID        string
	PhoneNumber       *string
	SourceOfFunds     string
	DepositorName     string
}

func (r CreateTransactionRequest) validate() error {
	switch {
	case r.CreatedByUserID == "":
		return fmt.Errorf("%w: creating user is required", ErrValidation)
	case r.DealerID == "":
		return fmt.Errorf("%w: dealer is required", ErrValidation)
	case r.OperatorID == "":
		return fmt.Errorf("%w: operator is required", ErrValidation)
	case r.OperatorServiceID == "":
		return fmt.Errorf("%w: operator service is required", ErrValidation)
	case r.CurrencyID == "":
		return fmt.Errorf("%w: currency is required", ErrValidation)
	case strings.TrimSpace(r.DepositorName) == "":
		return fmt.Errorf("%w: depositor name is required", ErrValidation)
	case strings.TrimSpace(r.SourceOfFunds) == "":
		return fmt.Errorf("%w: source of funds is required", ErrValidation)
	case !model.ValidServiceType(r.ServiceType):
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, r.ServiceType)
	case r.Amount.LessThanOrEqual(decimal.Zero):
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}

// Create validates the request, allocates a reference from the per-day
// counter and persists the transaction in PENDING with version 0.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	day := time.Now().UTC().Format("2006-01-02")
	seq, err := s.repo.NextReference(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("allocate reference: %w", err)
	}

	t := &model.Transaction{
		ID:                uuid.NewString(),
		Reference:         fmt.Sprintf("TRX-%s-%04d", day, seq),
		CreatedByUserID:   req.CreatedByUserID,
		OriginDeviceID:    req.OriginDeviceID,
		AgentID:           req.AgentID,
		DealerID:          req.DealerID,
		SubDealerID:       req.SubDealerID,
		OperatorID:        req.OperatorID,
		OperatorServiceID: req.OperatorServiceID,
		ServiceType:       req.ServiceType,
		Amount:            req.Amount,
		CurrencyID:        req.CurrencyID,
		PhoneNumber:       req.PhoneNumber,
		SourceOfFunds:     req.SourceOfFunds,
		DepositorName:     req.DepositorName,
		Status:            model.StatusPending,
		Version:           0,
	}

	err = s.repo.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateTransaction(ctx, tx, t); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"transaction_id": t.ID, "reference": t.Reference,
			"dealer_id": t.DealerID, "amount": t.Amount,
		})
		evt := &model.OutboxEvent{
			Aggregate: "Transaction", AggregateID: t.ID,
			EventType: model.EventTransactionCreated, Payload: string(payload),
		}
		return s.repo.CreateOutboxEvent(ctx, tx, evt)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("transaction created", "reference", t.Reference, "dealer", t.DealerID)
	return t, nil
}

// GetByID returns one transaction with its catalog relations populated.
func (s *TransactionService) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	err := s.repo.DB(ctx).
		Preload("Dealer").Preload("SubDealer").Preload("Agent").
		Preload("Operator").Preload("OperatorService").Preload("Currency").
		Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &t, nil
}

type TransactionFilters struct {
	Search   string
	Status   model.TransactionStatus
	Page     int
	PageSize int
}

// List returns a page of transactions, newest first, matching reference or
// depositor name against the search term.
func (s *TransactionService) List(ctx context.Context, f TransactionFilters) ([]model.Transaction, int64, error) {
	q := s.repo.DB(ctx).Model(&model.Transaction{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("lower(reference) LIKE ? OR lower(depositor_name) LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	var items []model.Transaction
	err := q.Order("created_at desc").
		Limit(size).Offset((page - 1) * size).
		Find(&items).Error
	return items, total, err
}

// DashboardStats is the front-page summary block.
type DashboardStats struct {
	TotalTransactions    int64           `json:"total_transactions"`
	PendingTransactions  int64           `json:"pending_transactions"`
	ApprovedTransactions int64           `json:"approved_transactions"`
	RejectedTransactions int64           `json:"rejected_transactions"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	ActiveAgents         int64           `json:"active_agents"`
	ActiveDealers        int64           `json:"active_dealers"`
}

// Stats computes the dashboard summary, serving from the Redis cache when a
// snapshot is less than a minute old.
func (s *TransactionService) Stats(ctx context.Context) (*DashboardStats, error) {
	if cached, err := s.repo.GetCachedStats(ctx); err == nil {
		var st DashboardStats
		if err := json.Unmarshal([]byte(cached), &st); err == nil {
			return &st, nil
		}
	}

	db := s.repo.DB(ctx)
	var st DashboardStats
	if err := db.Model(&model.Transaction{}).Count(&st.TotalTransactions).Error; err != nil {
		return nil, err
	}
	counts := map[model.TransactionStatus]*int64{
		model.StatusPending:  &st.PendingTransactions,
		model.StatusApproved: &st.ApprovedTransactions,
		model.StatusRejected: &st.RejectedTransactions,
	}
	for status, dst := range counts {
		if err := db.Model(&model.Transaction{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	var totalAmount float64
	if err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount).Error; err != nil {
		return nil, err
	}
	st.TotalAmount = decimal.NewFromFloat(totalAmount)
	if err := db.Model(&model.Agent{}).Where("status = ?", model.AgentActive).Count(&st.ActiveAgents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Dealer{}).Where("kyc_status = ?", model.KYCVerified).Count(&st.ActiveDealers).Error; err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(&st); err == nil {
		if err := s.repo.CacheStats(ctx, string(payload), statsTTL); err != nil {
			s.log.Warnf("cache stats: %v", err)
		}
	}
	return &st, nil
}

// Repo exposes underlying repository (unit tests helper).
func (s *TransactionService) Repo() repo.RepositoryInterface {
	return s.repo
}
