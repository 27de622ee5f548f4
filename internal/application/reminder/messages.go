package reminder

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	keySubject = "reminder.subject"
	keyBody    = "reminder.body"
)

func init() {
	_ = message.SetString(language.English, keySubject, "Installment reminder")
	_ = message.SetString(language.English, keyBody,
		"Dear %s, your %s installment for receipt #%d was due on %s. Remaining balance: %s.")
	_ = message.SetString(language.Arabic, keySubject, "تذكير بالقسط")
	_ = message.SetString(language.Arabic, keyBody,
		"عزيزي %s، قسطك %s للوصل رقم %d كان مستحقاً بتاريخ %s. المبلغ المتبقي: %s.")
}
