package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/permission"
)

// Income and expense operations
func (s *DefaultService) CreateTransaction(ctx context.Context, actorID string, kind models.RecordKind, req models.TransactionRequest) (*models.Transaction, error) {
	if err := transactionKind(kind); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := requireRef("typeId", req.TypeID); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Kind:        kind,
		Amount:      req.Amount,
		TypeID:      req.TypeID,
		Description: req.Description,
		Date:        s.dateOrNow(req),
		UserID:      actorID,
		GroupID:     optional(req.GroupID),
		ProjectID:   optional(req.ProjectID),
	}

	if err := s.resolver.CheckCreate(ctx, actorID, transactionRefs(txn)); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", kind, err)
	}
	return txn, nil
}

// GetTransaction returns a record the actor owns or can view through its group
func (s *DefaultService) GetTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string) (*models.Transaction, error) {
	if err := transactionKind(kind); err != nil {
		return nil, err
	}

	txn, err := s.repo.GetTransaction(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisible(ctx, actorID, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *DefaultService) UpdateTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string, req models.TransactionRequest) (*models.Transaction, error) {
	if err := transactionKind(kind); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := requireRef("typeId", req.TypeID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetTransaction(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	next := &models.Transaction{
		Kind:        kind,
		Amount:      req.Amount,
		TypeID:      req.TypeID,
		Description: req.Description,
		Date:        s.dateOrNow(req),
		GroupID:     optional(req.GroupID),
		ProjectID:   optional(req.ProjectID),
	}

	if err := s.resolver.CheckUpdate(ctx, actorID, current, transactionRefs(next)); err != nil {
		return nil, err
	}

	// identity, owner and creation time stay as stored
	next.ID = current.ID
	next.UserID = current.UserID
	next.CreatedAt = current.CreatedAt
	if req.Date == nil {
		next.Date = current.Date
	}

	if err := s.repo.UpdateTransaction(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *DefaultService) DeleteTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string) error {
	if err := transactionKind(kind); err != nil {
		return err
	}

	current, err := s.repo.GetTransaction(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.resolver.CheckDelete(ctx, actorID, current); err != nil {
		return err
	}
	return s.repo.SoftDeleteTransaction(ctx, kind, id)
}

// ListTransactions merges the actor's page with group-visible records
func (s *DefaultService) ListTransactions(ctx context.Context, actorID string, kind models.RecordKind, filter models.RecordFilter) ([]models.Transaction, error) {
	if err := transactionKind(kind); err != nil {
		return nil, err
	}

	return listVisible(ctx, s, actorID,
		func(ctx context.Context) ([]models.Transaction, error) {
			return s.repo.GetUserTransactions(ctx, kind, actorID, filter)
		},
		func(ctx context.Context, groupID string) ([]models.Transaction, error) {
			return s.repo.GetGroupTransactions(ctx, kind, groupID, filter)
		},
		func(t models.Transaction) (string, string) { return t.ID, t.UserID },
	)
}

func transactionRefs(txn *models.Transaction) permission.Refs {
	return permission.Refs{
		TypeKind:  txn.Kind,
		TypeID:    txn.TypeID,
		GroupID:   txn.GroupID,
		ProjectID: txn.ProjectID,
	}
}

func (s *DefaultService) dateOrNow(req models.TransactionRequest) time.Time {
	if req.Date != nil {
		return req.Date.UTC()
	}
	return s.now()
}

// Budget operations
func (s *DefaultService) CreateBudget(ctx context.Context, actorID string, req models.BudgetRequest) (*models.Budget, error) {
	budget, err := budgetFromRequest(req)
	if err != nil {
		return nil, err
	}
	budget.UserID = actorID

	if err := s.resolver.CheckCreate(ctx, actorID, budgetRefs(budget)); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("error creating budget: %w", err)
	}
	return budget, nil
}

func (s *DefaultService) GetBudget(ctx context.Context, actorID, id string) (*models.Budget, error) {
	budget, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisible(ctx, actorID, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *DefaultService) UpdateBudget(ctx context.Context, actorID, id string, req models.BudgetRequest) (*models.Budget, error) {
	next, err := budgetFromRequest(req)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckUpdate(ctx, actorID, current, budgetRefs(next)); err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.UserID = current.UserID
	next.CreatedAt = current.CreatedAt

	if err := s.repo.UpdateBudget(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *DefaultService) DeleteBudget(ctx context.Context, actorID, id string) error {
	current, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if err := s.resolver.CheckDelete(ctx, actorID, current); err != nil {
		return err
	}
	return s.repo.SoftDeleteBudget(ctx, id)
}

func (s *DefaultService) ListBudgets(ctx context.Context, actorID string, filter models.RecordFilter) ([]models.Budget, error) {
	return listVisible(ctx, s, actorID,
		func(ctx context.Context) ([]models.Budget, error) {
			return s.repo.GetUserBudgets(ctx, actorID, filter)
		},
		func(ctx context.Context, groupID string) ([]models.Budget, error) {
			return s.repo.GetGroupBudgets(ctx, groupID, filter)
		},
		func(b models.Budget) (string, string) { return b.ID, b.UserID },
	)
}

func budgetFromRequest(req models.BudgetRequest) (*models.Budget, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := requireRef("categoryId", req.CategoryID); err != nil {
		return nil, err
	}

	period := req.Period
	if period == "" {
		period = models.PeriodMonthly
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown budget period %q", common.ErrInvalidArgument, period)
	}

	return &models.Budget{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Period:     period,
		GroupID:    optional(req.GroupID),
		ProjectID:  optional(req.ProjectID),
	}, nil
}

func budgetRefs(b *models.Budget) permission.Refs {
	return permission.Refs{
		TypeKind:  models.KindBudget,
		TypeID:    b.CategoryID,
		GroupID:   b.GroupID,
		ProjectID: b.ProjectID,
	}
}
