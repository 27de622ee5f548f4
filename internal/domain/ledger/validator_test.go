package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, code, ve.Code)
}

// ============================================
// Balance Ledger
// ============================================

func TestRemaining(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		firstPay string
		payments []string
		want     string
	}{
		{"no payments", "1000", "0", nil, "1000"},
		{"first pay only", "1000", "200", nil, "800"},
		{"payments and first pay", "1000", "200", []string{"100", "250"}, "450"},
		{"paid exactly", "1000", "0", []string{"1000"}, "0"},
		{"overpaid is clamped", "1000", "300", []string{"800"}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := make([]decimal.Decimal, len(tt.payments))
			for i, p := range tt.payments {
				payments[i] = d(p)
			}
			got := Remaining(d(tt.total), d(tt.firstPay), payments)
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestNewBalance(t *testing.T) {
	b := NewBalance(d("500"), d("50"), []decimal.Decimal{d("100"), d("25.50")})

	assert.True(t, d("125.50").Equal(b.Payments))
	assert.True(t, d("175.50").Equal(b.PaidSoFar))
	assert.True(t, d("324.50").Equal(b.Remaining))
}

// ============================================
// Payment Validator
// ============================================

func TestValidateNewPayment_Boundary(t *testing.T) {
	unit := &Payable{Total: d("1000"), FirstPay: decimal.Zero, Status: StatusPending}

	assertCode(t, ValidateNewPayment(unit, d("1001")), CodeExceedsRemaining)
	assert.NoError(t, ValidateNewPayment(unit, d("1000")))
	assert.NoError(t, ValidateNewPayment(unit, d("999")))
}

func TestValidateNewPayment_Rejections(t *testing.T) {
	unit := &Payable{Total: d("100"), Status: StatusPending}

	assertCode(t, ValidateNewPayment(unit, decimal.Zero), CodeInvalidAmount)
	assertCode(t, ValidateNewPayment(unit, d("-5")), CodeInvalidAmount)

	paid := &Payable{Total: d("100"), Status: StatusPaid}
	assertCode(t, ValidateNewPayment(paid, d("1")), CodeAlreadyPaid)
}

func TestValidateEditedPayment_DoesNotDoubleCountSelf(t *testing.T) {
	unit := &Payable{
		Total:    d("500"),
		Status:   StatusPending,
		Payments: []*Payment{{ID: 1, Amount: d("200")}},
	}
	require.True(t, d("300").Equal(unit.Remaining()))

	assert.NoError(t, ValidateEditedPayment(unit, d("200"), d("500")))
	assertCode(t, ValidateEditedPayment(unit, d("200"), d("501")), CodeExceedsRemaining)
	assertCode(t, ValidateEditedPayment(unit, d("200"), decimal.Zero), CodeInvalidAmount)
}

func TestValidateAmount_CentPrecision(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"999.99", true},
		{"10.500", true},
		{"0.001", false},
		{"999.995", false},
		{"1.0000001", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount(d(tt.amount))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, CodeInvalidAmount)
		})
	}
}

func TestValidateNewPayment_SubCentCannotStrandRemaining(t *testing.T) {
	unit := &Payable{Total: d("1000"), Status: StatusPending}
	assertCode(t, ValidateNewPayment(unit, d("999.995")), CodeInvalidAmount)
}

func TestValidateEditedPayment_PaidUnitKeepsExactTotal(t *testing.T) {
	unit := &Payable{
		Total:    d("1000"),
		Status:   StatusPaid,
		Payments: []*Payment{{ID: 1, Amount: d("600")}, {ID: 2, Amount: d("400")}},
	}

	assertCode(t, ValidateEditedPayment(unit, d("600"), d("500")), CodeAlreadyPaid)
	assertCode(t, ValidateEditedPayment(unit, d("600"), d("600.01")), CodeAlreadyPaid)
	assert.NoError(t, ValidateEditedPayment(unit, d("600"), d("600")))
}

func TestValidateFirstPay(t *testing.T) {
	tests := []struct {
		name     string
		firstPay string
		quantity int
		price    string
		code     string
	}{
		{"zero first pay", "0", 2, "150", ""},
		{"equal to line total", "300", 2, "150", ""},
		{"above line total", "300.01", 2, "150", CodeFirstPayExceedsTotal},
		{"negative", "-1", 1, "10", CodeInvalidAmount},
		{"fraction of a cent", "10.005", 1, "100", CodeInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFirstPay(d(tt.firstPay), tt.quantity, d(tt.price))
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, tt.code)
		})
	}
}

func TestValidateReceiptPayment(t *testing.T) {
	lines := []LineBalance{
		{InstallmentID: 1, Total: d("300"), FirstPay: d("50"), Payments: d("50")},
		{InstallmentID: 2, Total: d("700"), FirstPay: d("100"), Payments: decimal.Zero},
	}
	require.True(t, d("800").Equal(ReceiptRemaining(lines)))

	assert.NoError(t, ValidateReceiptPayment(lines, d("800")))
	assertCode(t, ValidateReceiptPayment(lines, d("800.01")), CodeExceedsReceiptRemaining)
	assertCode(t, ValidateReceiptPayment(lines, decimal.Zero), CodeInvalidAmount)

	settled := []LineBalance{{InstallmentID: 1, Total: d("100"), FirstPay: d("100")}}
	assertCode(t, ValidateReceiptPayment(settled, d("1")), CodeNothingOwed)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError(CodeInvalidAmount, "x")))
	assert.False(t, IsValidationError(assert.AnError))
}
