package viewmodel

import (
	"context"
	"sync"

	"smartspend/internal/api"
	"smartspend/internal/core"
)

// TransactionsViewModel holds one screen's expense or income list.
// Each Fetch is a single round-trip; the screen re-fetches on every
// appearance rather than caching across visits.
type TransactionsViewModel struct {
	kind  core.TransactionKind
	fetch func(ctx context.Context, token string) ([]core.Transaction, error)

	mu      sync.Mutex
	loading bool
	errMsg  string
	list    []core.Transaction
}

func NewExpenses(client *api.Client) *TransactionsViewModel {
	return &TransactionsViewModel{kind: core.ExpenseKind, fetch: client.Expenses}
}

func NewIncomes(client *api.Client) *TransactionsViewModel {
	return &TransactionsViewModel{kind: core.IncomeKind, fetch: client.Incomes}
}

// Kind reports whether this slot holds expenses or incomes.
func (vm *TransactionsViewModel) Kind() core.TransactionKind {
	return vm.kind
}

// Fetch loads the full collection into the slot. On failure the list
// is left empty and the error message replaces it.
func (vm *TransactionsViewModel) Fetch(ctx context.Context, token string) {
	vm.mu.Lock()
	vm.loading = true
	vm.errMsg = ""
	vm.mu.Unlock()

	list, err := vm.fetch(ctx, token)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loading = false
	if err != nil {
		vm.errMsg = errMessage(err)
		vm.list = nil
		return
	}
	vm.list = list
}

// Snapshot returns a consistent copy of the slot.
func (vm *TransactionsViewModel) Snapshot() Snapshot[[]core.Transaction] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	list := make([]core.Transaction, len(vm.list))
	copy(list, vm.list)
	return Snapshot[[]core.Transaction]{Loading: vm.loading, Err: vm.errMsg, Data: list}
}

// Summary recomputes the aggregates from the full list.
func (vm *TransactionsViewModel) Summary() core.Summary {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return core.Summarize(vm.list)
}
