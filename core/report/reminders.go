package report

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/pgmhostel/pgm/core"
)

// DueReminders builds one reminder per student with an outstanding due and an email address.
func DueReminders(rows []StudentRow) []*core.EmailMessage {
	messages := make([]*core.EmailMessage, 0, len(rows))
	for _, row := range rows {
		if !row.HasDue {
			continue
		}
		addr, err := mail.ParseAddress(row.Email)
		if err != nil {
			continue
		}
		if addr.Name == "" {
			addr.Name = row.Name
		}
		messages = append(messages, &core.EmailMessage{
			To:          []mail.Address{*addr},
			Subject:     "Rent due reminder",
			TextContent: reminderText(row),
		})
	}
	return messages
}

func reminderText(row StudentRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", row.Name)
	fmt.Fprintf(&b, "Your outstanding rent for room %s is %.2f (monthly rent %.2f, paid %.2f).\n",
		row.RoomLabel, row.TotalDue, row.MonthlyRent, row.TotalPaid)
	if row.LastPayment != nil {
		fmt.Fprintf(&b, "Your last payment of %.2f was received on %s.\n", row.LastPayment.Amount, row.LastPayment.PaymentDate)
	}
	b.WriteString("\nPlease clear it at the earliest. Ignore this message if you have already paid.\n")
	return b.String()
}
