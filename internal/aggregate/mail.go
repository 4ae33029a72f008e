package aggregate

import (
	"fmt"
	"strconv"
	"strings"
)

// MailTemplate is the template name monthly summaries are sent with.
const MailTemplate = "monthly_summary"

// MailPayload flattens a summary into the key/value payload the mail template expects.
// Bill lines are grouped by bill type in order of first appearance.
func MailPayload(s Summary, recipient, currency string) map[string]string {
	var order []string
	groups := make(map[string][]string)
	for _, p := range s.Payments {
		account := p.AccountNumber
		if account == "" {
			account = "N/A"
		}
		if _, seen := groups[p.BillType]; !seen {
			order = append(order, p.BillType)
		}
		groups[p.BillType] = append(groups[p.BillType],
			fmt.Sprintf("• %s - %s %s", account, currency, p.Amount.StringFixed(2)))
	}

	sections := make([]string, 0, len(order))
	for _, billType := range order {
		sections = append(sections, "\n"+billType+":\n"+strings.Join(groups[billType], "\n"))
	}

	return map[string]string{
		"to_email":     recipient,
		"subject":      fmt.Sprintf("Bill Summary for %d/%d", s.Period.Month, s.Period.Year),
		"month_name":   s.Period.MonthName(),
		"year":         strconv.Itoa(s.Period.Year),
		"bill_summary": strings.Join(sections, "\n"),
		"total":        s.Total.StringFixed(2),
		"received":     s.Received.StringFixed(2),
		"balance":      s.Balance.StringFixed(2),
	}
}
