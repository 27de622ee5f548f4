package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "قيد التسديد", StatusPending.DisplayName(language.Arabic))
	assert.Equal(t, "Paid", StatusPaid.DisplayName(language.English))
	assert.Equal(t, "متأخر", PaymentTagLate.DisplayName(language.MustParse("ar-IQ")))
	assert.Equal(t, "Paid", PaymentTagPaid.DisplayName(language.BritishEnglish))
	assert.Equal(t, "تسديد فاتورة شراء", TransactionTypeInvoiceSettlement.DisplayName(language.Arabic))
	assert.Equal(t, "Weekly", InstallmentTypeWeekly.DisplayName(language.French))
	assert.Equal(t, "UNKNOWN", Status("UNKNOWN").DisplayName(language.English))
}

func TestMatchDisplayLanguage(t *testing.T) {
	assert.Equal(t, language.Arabic, MatchDisplayLanguage(language.MustParse("ar-SA")))
	assert.Equal(t, language.English, MatchDisplayLanguage(language.Japanese))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusPaid.IsValid())
	assert.False(t, Status("DONE").IsValid())
	assert.True(t, StatusPending.CanAcceptPayment())
	assert.False(t, StatusPaid.CanAcceptPayment())
	assert.True(t, ReceiptTypeCash.IsValid())
	assert.False(t, InstallmentType("YEARLY").IsValid())
	assert.Len(t, AllTransactionTypes(), 3)
}

func TestInstallmentType_NextDue(t *testing.T) {
	from := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, from.AddDate(0, 0, 1), InstallmentTypeDaily.NextDue(from))
	assert.Equal(t, from.AddDate(0, 0, 7), InstallmentTypeWeekly.NextDue(from))
	assert.Equal(t, from.AddDate(0, 1, 0), InstallmentTypeMonthly.NextDue(from))
}
