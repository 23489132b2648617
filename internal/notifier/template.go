package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrijs2005/vamazon/internal/server/events"
)

const maxItemNameLen = 50

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"amount":   formatAmount,
	"truncate": truncate,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#eaeded;">
<div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
  <div style="background-color:#131921;padding:20px;text-align:center;">
    <h1 style="color:#ffffff;margin:0;">V<span style="color:#febd69;">amazon</span></h1>
  </div>
  <div style="background-color:#067d62;padding:20px;text-align:center;color:#ffffff;">
    <h2 style="margin:0;">Order Confirmed!</h2>
    <p>Thank you for your order, {{.CustomerName}}!</p>
  </div>
  <div style="padding:30px;">
    <p style="color:#565959;margin:0;">Order Number</p>
    <p style="font-size:18px;font-weight:bold;margin:5px 0 20px 0;">{{.OrderNumber}}</p>
    <table style="width:100%;border-collapse:collapse;">
      <thead><tr><th></th><th style="text-align:left;">Item</th><th>Qty</th><th style="text-align:right;">Price</th></tr></thead>
      <tbody>
      {{- range .Items}}
        <tr>
          <td style="padding:12px;width:70px;">{{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{truncate .Name 30}}" style="width:60px;height:60px;object-fit:contain;">{{else}}No image{{end}}</td>
          <td style="padding:12px;">{{truncate .Name 50}}</td>
          <td style="padding:12px;text-align:center;">{{.Quantity}}</td>
          <td style="padding:12px;text-align:right;">&#8377;{{amount .Price}}</td>
        </tr>
      {{- end}}
      </tbody>
    </table>
    <p style="text-align:right;font-size:18px;"><strong>Total: &#8377;{{amount .TotalAmount}}</strong></p>
    <div style="margin-top:25px;padding:15px;border:1px solid #ddd;">
      <h4 style="margin:0 0 10px 0;">Shipping Address</h4>
      <p style="margin:0;color:#565959;"><strong>{{.CustomerName}}</strong><br>{{.Shipping.AddressLine1}}{{with .Shipping.AddressLine2}}, {{.}}{{end}}<br>{{.Shipping.City}}, {{.Shipping.State}} - {{.Shipping.Pincode}}</p>
    </div>
    {{- if .OrdersURL}}
    <p style="text-align:center;margin-top:30px;"><a href="{{.OrdersURL}}">View Your Orders</a></p>
    {{- end}}
  </div>
</div>
</body>
</html>
`))

type confirmationData struct {
	events.OrderPlaced
	OrdersURL string
}

func confirmationSubject(orderNumber string) string {
	return fmt.Sprintf("Order Confirmed - %s | Vamazon", orderNumber)
}

func renderConfirmation(e events.OrderPlaced, ordersURL string) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, confirmationData{OrderPlaced: e, OrdersURL: ordersURL}); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}

// formatAmount renders v with two decimals and comma thousands separators.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
