package core

// Summary is the derived numeric overview of one transaction list.
// Every field recomputes from the full list; nothing is incremental.
type Summary struct {
	Count   int
	Total   float64
	Average float64
	Highest float64
	Lowest  float64
}

// Summarize computes total, average and extremes over a list of
// transactions. Empty lists yield zeros across the board: average,
// highest and lowest all default to 0 rather than NaN or infinities.
func Summarize(list []Transaction) Summary {
	s := Summary{Count: len(list)}
	if len(list) == 0 {
		return s
	}
	s.Highest = list[0].Amount
	s.Lowest = list[0].Amount
	for _, t := range list {
		s.Total += t.Amount
		if t.Amount > s.Highest {
			s.Highest = t.Amount
		}
		if t.Amount < s.Lowest {
			s.Lowest = t.Amount
		}
	}
	s.Average = s.Total / float64(s.Count)
	return s
}

// Total sums the amounts of a transaction list.
func Total(list []Transaction) float64 {
	var sum float64
	for _, t := range list {
		sum += t.Amount
	}
	return sum
}

// NetBalance is total income minus total expense.
func NetBalance(incomes, expenses []Transaction) float64 {
	return Total(incomes) - Total(expenses)
}
