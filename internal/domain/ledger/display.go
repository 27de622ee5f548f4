package ledger

import "golang.org/x/text/language"

var displayLanguages = []language.Tag{language.English, language.Arabic}

var displayMatcher = language.NewMatcher(displayLanguages)

// displayNames maps an enum value to its label per supported language.
var displayNames = map[string][2]string{
	string(StatusPending):                    {"Pending", "قيد التسديد"},
	string(StatusPaid):                       {"Paid", "مسدد"},
	"tag:" + string(PaymentTagPaid):          {"Paid", "مدفوع"},
	"tag:" + string(PaymentTagLate):          {"Late", "متأخر"},
	string(InstallmentTypeDaily):             {"Daily", "يومي"},
	string(InstallmentTypeWeekly):            {"Weekly", "أسبوعي"},
	string(InstallmentTypeMonthly):           {"Monthly", "شهري"},
	string(ReceiptTypeCash):                  {"Cash", "نقدي"},
	string(ReceiptTypeInstallment):           {"Installment", "تقسيط"},
	string(TransactionTypePurchaseInvoice):   {"Purchase invoice", "فاتورة شراء"},
	string(TransactionTypeInvoiceSettlement): {"Invoice settlement", "تسديد فاتورة شراء"},
	string(TransactionTypePurchaseDebt):      {"Purchase debt", "دين فاتورة شراء"},
}

// MatchDisplayLanguage picks the closest supported display language for tag
func MatchDisplayLanguage(tag language.Tag) language.Tag {
	_, idx, _ := displayMatcher.Match(tag)
	return displayLanguages[idx]
}

func displayName(key string, tag language.Tag) string {
	names, ok := displayNames[key]
	if !ok {
		return key
	}
	_, idx, _ := displayMatcher.Match(tag)
	return names[idx]
}

// DisplayName returns the localized label of the status
func (s Status) DisplayName(tag language.Tag) string {
	return displayName(string(s), tag)
}

// DisplayName returns the localized label of the payment tag
func (t PaymentTag) DisplayName(tag language.Tag) string {
	return displayName("tag:"+string(t), tag)
}

// DisplayName returns the localized label of the installment type
func (t InstallmentType) DisplayName(tag language.Tag) string {
	return displayName(string(t), tag)
}

// DisplayName returns the localized label of the receipt type
func (t ReceiptType) DisplayName(tag language.Tag) string {
	return displayName(string(t), tag)
}

// DisplayName returns the localized label of the transaction type
func (t TransactionType) DisplayName(tag language.Tag) string {
	return displayName(string(t), tag)
}
