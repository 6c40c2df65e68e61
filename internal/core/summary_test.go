package core

import "testing"

func tx(amounts ...float64) []Transaction {
	list := make([]Transaction, len(amounts))
	for i, a := range amounts {
		list[i] = Transaction{Amount: a}
	}
	return list
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name    string
		amounts []float64
		want    Summary
	}{
		{
			name:    "empty list yields zeros",
			amounts: nil,
			want:    Summary{},
		},
		{
			name:    "single item",
			amounts: []float64{42.5},
			want:    Summary{Count: 1, Total: 42.5, Average: 42.5, Highest: 42.5, Lowest: 42.5},
		},
		{
			name:    "several items",
			amounts: []float64{10, 20, 30},
			want:    Summary{Count: 3, Total: 60, Average: 20, Highest: 30, Lowest: 10},
		},
		{
			name:    "unsorted with duplicates",
			amounts: []float64{5, 1, 5, 9, 1},
			want:    Summary{Count: 5, Total: 21, Average: 4.2, Highest: 9, Lowest: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tx(tc.amounts...))
			if got != tc.want {
				t.Fatalf("Summarize(%v) = %+v, want %+v", tc.amounts, got, tc.want)
			}
		})
	}
}

func TestNetBalance(t *testing.T) {
	cases := []struct {
		name     string
		incomes  []float64
		expenses []float64
		want     float64
	}{
		{"both empty", nil, nil, 0},
		{"only incomes", []float64{100, 50}, nil, 150},
		{"only expenses", nil, []float64{30}, -30},
		{"mixed", []float64{100, 200}, []float64{50, 75}, 175},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			incomes, expenses := tx(tc.incomes...), tx(tc.expenses...)
			got := NetBalance(incomes, expenses)
			if got != tc.want {
				t.Fatalf("NetBalance = %v, want %v", got, tc.want)
			}
			// identity against the per-list totals
			if got != Total(incomes)-Total(expenses) {
				t.Fatalf("NetBalance does not match Total(incomes)-Total(expenses)")
			}
		})
	}
}
