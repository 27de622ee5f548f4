package ledger

import "github.com/shopspring/decimal"

// Balance is the derived position of a payable unit at query time.
// Nothing here is persisted; it is always rebuilt from payment rows.
type Balance struct {
	Total     decimal.Decimal `json:"total"`
	FirstPay  decimal.Decimal `json:"first_pay"`
	Payments  decimal.Decimal `json:"payments"`
	PaidSoFar decimal.Decimal `json:"paid_so_far"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SumAmounts adds up a list of amounts
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}

// PaidSoFar returns firstPay plus the sum of all payment amounts
func PaidSoFar(firstPay decimal.Decimal, payments []decimal.Decimal) decimal.Decimal {
	return firstPay.Add(SumAmounts(payments))
}

// Remaining returns max(0, total - (sum(payments) + firstPay))
func Remaining(total, firstPay decimal.Decimal, payments []decimal.Decimal) decimal.Decimal {
	return clampZero(total.Sub(PaidSoFar(firstPay, payments)))
}

// NewBalance computes the full balance of a payable unit
func NewBalance(total, firstPay decimal.Decimal, payments []decimal.Decimal) Balance {
	sum := SumAmounts(payments)
	paid := firstPay.Add(sum)
	return Balance{
		Total:     total,
		FirstPay:  firstPay,
		Payments:  sum,
		PaidSoFar: paid,
		Remaining: clampZero(total.Sub(paid)),
	}
}

// HasCentPrecision reports whether d fits a two-decimal money column
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func minDecimal(values ...decimal.Decimal) decimal.Decimal {
	m := values[0]
	for _, v := range values[1:] {
		if v.LessThan(m) {
			m = v
		}
	}
	return m
}
