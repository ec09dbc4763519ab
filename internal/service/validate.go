package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrInvalidArgument)
	}
	// the stores keep two decimal places
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount has more than two decimal places", common.ErrInvalidArgument)
	}
	return nil
}

func transactionKind(kind models.RecordKind) error {
	if kind != models.KindIncome && kind != models.KindExpense {
		return fmt.Errorf("%w: %q is not income or expense", common.ErrInvalidArgument, kind)
	}
	return nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end date is before start date", common.ErrInvalidArgument)
	}
	return nil
}

func requireRef(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", common.ErrInvalidArgument, field)
	}
	return nil
}

// optional treats blank references as absent
func optional(ref *string) *string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return nil
	}
	return ref
}
