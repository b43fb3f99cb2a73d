package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// receiptHTML is the receipt layout. It is a complete document so the
// renderer does not need to wrap it.
const receiptHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Payment Receipt</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  .header { text-align: center; border-bottom: 2px solid #222; padding-bottom: 12px; }
  .header h1 { margin: 0; font-size: 22px; }
  .header p { margin: 4px 0 0; font-size: 13px; color: #555; }
  table { width: 100%; margin-top: 24px; border-collapse: collapse; }
  td { padding: 8px 4px; font-size: 14px; }
  td.label { color: #555; width: 45%; }
  td.value { font-weight: bold; text-align: right; }
  .total td { border-top: 1px solid #ccc; font-size: 16px; }
  .footer { margin-top: 36px; font-size: 11px; color: #888; text-align: center; }
</style>
</head>
<body>
  <div class="header">
    <h1>{{.FacilityName}}</h1>
    <p>Payment Receipt</p>
  </div>
  <table>
    <tr><td class="label">Name</td><td class="value">{{.ResidentName}}</td></tr>
    <tr><td class="label">Date</td><td class="value">{{.Date}}</td></tr>
    <tr class="total"><td class="label">Amount Paid</td><td class="value">{{.AmountPaid}}</td></tr>
    <tr><td class="label">Balance After Payment</td><td class="value">{{.BalanceAfter}}</td></tr>
  </table>
  <div class="footer">Receipt ID: {{.EntryID}}</div>
</body>
</html>`

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptHTML))

// receiptTemplateData is the flattened, pre-formatted template input.
type receiptTemplateData struct {
	FacilityName string
	ResidentName string
	Date         string
	AmountPaid   string
	BalanceAfter string
	EntryID      string
}

// BuildReceiptHTML renders the receipt template for the given data
func BuildReceiptHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, receiptTemplateData{
		FacilityName: data.FacilityName,
		ResidentName: data.ResidentName,
		Date:         data.EntryDate.Format("January 2, 2006"),
		AmountPaid:   FormatMoney(data.AmountPaid),
		BalanceAfter: FormatMoney(data.BalanceAfter),
		EntryID:      data.EntryID.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render receipt template: %w", err)
	}
	return buf.String(), nil
}

// FormatMoney formats an amount as $1,234.56. Negative amounts keep the
// sign in front of the dollar symbol.
func FormatMoney(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	formatted := "$" + strings.Join(groups, ",") + "." + frac
	if negative {
		return "-" + formatted
	}
	return formatted
}
