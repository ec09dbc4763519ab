package repository

import (
	"context"
	"fmt"

	"github.com/rongwang/fintrack/internal/models"
)

// DefaultTypes lists the global types created on first start
var DefaultTypes = map[models.RecordKind][]string{
	models.KindIncome:  {"salary", "investment", "freelance", "other"},
	models.KindExpense: {"food", "rent", "utilities", "entertainment", "other"},
	models.KindBudget:  {"food", "rent", "utilities", "entertainment", "other"},
}

// SeedDefaults inserts the missing default global types and returns how many were created
func SeedDefaults(ctx context.Context, repo Repository) (int, error) {
	created := 0
	for _, kind := range []models.RecordKind{models.KindIncome, models.KindExpense, models.KindBudget} {
		for _, name := range DefaultTypes[kind] {
			ok, err := repo.EnsureGlobalCategory(ctx, kind, name)
			if err != nil {
				return created, fmt.Errorf("seed %s type %q: %w", kind, name, err)
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}
