package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/repo"
)

// ApprovalService enforces the two-level approval protocol. It is the single
// writer of Transaction.Status: no other component updates that column.
type ApprovalService struct {
	repo repo.RepositoryInterface
	log  *zap.SugaredLogger
}

// NewApprovalService returns ApprovalService.
func NewApprovalService(r repo.RepositoryInterface, logger *zap.SugaredLogger) *ApprovalService {
	return &ApprovalService{repo: r, log: logger}
}

// Actor identifies who is deciding. The role is supplied explicitly and
// checked against the level policy instead of being inferred from the level.
type Actor struct {
	UserID string
	Role   model.RoleName
}

type ApproveRequest struct {
	TransactionID string
	Actor         Actor
	Level         int
	Comment       string
}

type RejectRequest struct {
	TransactionID string
	Actor         Actor
	Reason        string
}

// levelRoles is the approval permission policy: which roles may decide at
// each checkpoint.
var levelRoles = map[int][]model.RoleName{
	1: {model.RoleOfficer, model.RoleOperationManager},
	2: {model.RoleCFO, model.RoleManagingDirector},
}

func roleAllowed(level int, role model.RoleName) bool {
	for _, r := range levelRoles[level] {
		if r == role {
			return true
		}
	}
	return false
}

// Approve records a level-1 or level-2 approval decision. Level 1 moves
// PENDING to VALIDATED; level 2 moves VALIDATED to APPROVED and stamps the
// approval timestamp. The approval record, status update, version bump and
// outbox event commit as a single unit.
func (s *ApprovalService) Approve(ctx context.Context, req ApproveRequest) (*model.TransactionApproval, error) {
	if req.Level != 1 && req.Level != 2 {
		return nil, fmt.Errorf("%w: approval level must be 1 or 2, got %d", ErrValidation, req.Level)
	}
	if req.Actor.UserID == "" {
		return nil, fmt.Errorf("%w: acting user is required", ErrValidation)
	}
	if !roleAllowed(req.Level, req.Actor.Role) {
		return nil, fmt.Errorf("%w: role %s cannot approve at level %d", ErrRoleNotPermitted, req.Actor.Role, req.Level)
	}

	var approval *model.TransactionApproval
	err := s.repo.DB(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.repo.GetTransaction(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction %s", ErrNotFound, req.TransactionID)
			}
			return err
		}

		updates := map[string]interface{}{"version": t.Version + 1}
		eventType := model.EventTransactionValidated
		switch req.Level {
		case 1:
			if t.Status != model.StatusPending {
				return fmt.Errorf("%w: level-1 approval requires PENDING, transaction %s is %s", ErrInvalidState, t.ID, t.Status)
			}
			updates["status"] = model.StatusValidated
		case 2:
			if t.Status != model.StatusValidated {
				return fmt.Errorf("%w: level-2 approval requires VALIDATED, transaction %s is %s", ErrInvalidState, t.ID, t.Status)
			}
			now := time.Now()
			updates["status"] = model.StatusApproved
			updates["approved_at"] = &now
			eventType = model.EventTransactionApproved
		}

		a := &model.TransactionApproval{
			TransactionID:  t.ID,
			ApproverUserID: req.Actor.UserID,
			ApproverRole:   string(req.Actor.Role),
			Level:          req.Level,
			Action:         model.ActionApprove,
		}
		if req.Comment != "" {
			a.Comment = &req.Comment
		}
		if err := s.repo.AppendApproval(ctx, tx, a); err != nil {
			return err
		}
		if err := s.repo.UpdateTransaction(ctx, tx, t.ID, updates, t.Version); err != nil {
			if errors.Is(err, repo.ErrVersionConflict) {
				return fmt.Errorf("%w: transaction %s changed since read", ErrConflict, t.ID)
			}
			return err
		}
		if err := s.appendOutbox(ctx, tx, t, eventType, map[string]interface{}{
			"level": req.Level, "approver": req.Actor.UserID,
		}); err != nil {
			return err
		}
		approval = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("transaction approved", "transaction", req.TransactionID, "level", req.Level, "by", req.Actor.UserID)
	return approval, nil
}

// Reject moves a PENDING or VALIDATED transaction to REJECTED. The recorded
// level is implied by the current status: a rejection from PENDING is a
// level-1 decision, from VALIDATED a level-2 one.
func (s *ApprovalService) Reject(ctx context.Context, req RejectRequest) (*model.TransactionApproval, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if req.Actor.UserID == "" {
		return nil, fmt.Errorf("%w: acting user is required", ErrValidation)
	}

	var approval *model.TransactionApproval
	err := s.repo.DB(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.repo.GetTransaction(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction %s", ErrNotFound, req.TransactionID)
			}
			return err
		}

		var level int
		switch t.Status {
		case model.StatusPending:
			level = 1
		case model.StatusValidated:
			level = 2
		default:
			return fmt.Errorf("%w: cannot reject transaction %s in status %s", ErrInvalidState, t.ID, t.Status)
		}
		if !roleAllowed(level, req.Actor.Role) {
			return fmt.Errorf("%w: role %s cannot reject at level %d", ErrRoleNotPermitted, req.Actor.Role, level)
		}

		a := &model.TransactionApproval{
			TransactionID:  t.ID,
			ApproverUserID: req.Actor.UserID,
			ApproverRole:   string(req.Actor.Role),
			Level:          level,
			Action:         model.ActionReject,
			Comment:        &reason,
		}
		if err := s.repo.AppendApproval(ctx, tx, a); err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":        model.StatusRejected,
			"status_reason": reason,
			"rejected_at":   &now,
			"version":       t.Version + 1,
		}
		if err := s.repo.UpdateTransaction(ctx, tx, t.ID, updates, t.Version); err != nil {
			if errors.Is(err, repo.ErrVersionConflict) {
				return fmt.Errorf("%w: transaction %s changed since read", ErrConflict, t.ID)
			}
			return err
		}
		if err := s.appendOutbox(ctx, tx, t, model.EventTransactionRejected, map[string]interface{}{
			"level": level, "reason": reason, "approver": req.Actor.UserID,
		}); err != nil {
			return err
		}
		approval = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("transaction rejected", "transaction", req.TransactionID, "by", req.Actor.UserID)
	return approval, nil
}

// ListApprovals returns the audit trail for one transaction, oldest first.
// An empty trail is a successful empty result, not an error.
func (s *ApprovalService) ListApprovals(ctx context.Context, transactionID string) ([]model.TransactionApproval, error) {
	return s.repo.ListApprovals(ctx, transactionID)
}

func (s *ApprovalService) appendOutbox(ctx context.Context, tx *gorm.DB, t *model.Transaction, eventType string, extra map[string]interface{}) error {
	body := map[string]interface{}{
		"transaction_id": t.ID,
		"reference":      t.Reference,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	evt := &model.OutboxEvent{
		Aggregate: "Transaction", AggregateID: t.ID,
		EventType: eventType, Payload: string(payload),
	}
	return s.repo.CreateOutboxEvent(ctx, tx, evt)
}
