package viewmodel

import (
	"context"

	"smartspend/internal/api"
	"smartspend/internal/core"
)

// Statistics is the derived overview of both lists. All fields come
// from core.Summarize; empty lists contribute zeros.
type Statistics struct {
	Expenses core.Summary
	Incomes  core.Summary

	// NetBalance is total income minus total expense.
	NetBalance float64
}

// StatisticsViewModel drives the statistics screen. The expense and
// income fetches stay independent: each one updates its own slot and
// the two are not joined, so a failure on one side still leaves the
// other usable.
type StatisticsViewModel struct {
	Expenses *TransactionsViewModel
	Incomes  *TransactionsViewModel
}

func NewStatistics(client *api.Client) *StatisticsViewModel {
	return &StatisticsViewModel{
		Expenses: NewExpenses(client),
		Incomes:  NewIncomes(client),
	}
}

// Fetch loads both collections, one request after the other.
func (vm *StatisticsViewModel) Fetch(ctx context.Context, token string) {
	vm.Expenses.Fetch(ctx, token)
	vm.Incomes.Fetch(ctx, token)
}

// Err returns the first error message of the two slots, if any.
func (vm *StatisticsViewModel) Err() string {
	if s := vm.Expenses.Snapshot(); s.Err != "" {
		return s.Err
	}
	if s := vm.Incomes.Snapshot(); s.Err != "" {
		return s.Err
	}
	return ""
}

// Statistics recomputes every aggregate from the current lists.
func (vm *StatisticsViewModel) Statistics() Statistics {
	expenses := vm.Expenses.Summary()
	incomes := vm.Incomes.Summary()
	return Statistics{
		Expenses:   expenses,
		Incomes:    incomes,
		NetBalance: incomes.Total - expenses.Total,
	}
}
