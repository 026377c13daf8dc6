// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": formatMoney,
}).Parse(invoiceTemplate))

// Service renders order invoices
type Service struct {
	company CompanyInfo
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg config.InvoiceConfig) *Service {
	return &Service{
		company: CompanyInfo{
			Name:       cfg.CompanyName,
			Address:    cfg.CompanyAddress,
			Phone:      cfg.CompanyPhone,
			Email:      cfg.CompanyEmail,
			UPIPayeeID: cfg.UPIPayeeID,
		},
		now: time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Company       CompanyInfo
	Verified      bool
}

// CompanyInfo represents the seller printed on the invoice
type CompanyInfo struct {
	Name       string
	Address    string
	Phone      string
	Email      string
	UPIPayeeID string
}

// GenerateInvoice converts the invoice HTML of o into a PDF
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the invoice of o as an HTML document
func (s *Service) RenderHTML(o *order.Order) (string, error) {
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.OrderNumber,
		InvoiceDate:   s.now().Format("January 2, 2006"),
		Order:         o,
		Company:       s.company,
		Verified:      o.Payment.VerifiedAt != nil,
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// formatMoney prints minor units as rupees with two decimals
func formatMoney(amount int64) string {
	return "₹" + decimal.New(amount, -2).StringFixed(2)
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #eee; padding-bottom: 16px; }
        .title { font-size: 26px; font-weight: bold; color: #0f766e; }
        .lines { width: 100%; border-collapse: collapse; margin: 24px 0; }
        .lines th, .lines td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .lines .num { text-align: right; }
        .totals { float: right; width: 320px; }
        .totals td { padding: 6px; text-align: right; }
        .grand { font-size: 18px; font-weight: bold; border-top: 2px solid #333; }
        .badge { padding: 3px 8px; border-radius: 4px; font-size: 12px; text-transform: uppercase; }
        .verified { background: #dcfce7; color: #166534; }
        .pending { background: #fef3c7; color: #92400e; }
        .footer { clear: both; margin-top: 48px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Phone}}<p>Phone: {{.Company.Phone}}</p>{{end}}
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div>
            <div class="title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
            <p><strong>Placed:</strong> {{.Order.CreatedAt.Format "January 2, 2006"}}</p>
        </div>
    </div>

    <h3>Ship To</h3>
    <p><strong>{{.Order.ShippingAddress.FullName}}</strong></p>
    <p>{{.Order.ShippingAddress.AddressLine1}}</p>
    {{if .Order.ShippingAddress.AddressLine2}}<p>{{.Order.ShippingAddress.AddressLine2}}</p>{{end}}
    <p>{{.Order.ShippingAddress.City}} {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}</p>
    <p>Phone: {{.Order.ShippingAddress.Phone}}</p>
    <p>Email: {{.Order.Email}}</p>

    <p>
        UPI transaction {{.Order.Payment.TransactionID}}
        <span class="badge {{if .Verified}}verified{{else}}pending{{end}}">{{if .Verified}}verified{{else}}pending verification{{end}}</span>
    </p>

    <table class="lines">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal:</td><td>{{money .Order.Pricing.Subtotal}}</td></tr>
        {{if gt .Order.Pricing.BulkDiscountAmount 0}}
        <tr><td>Bulk discount ({{.Order.Pricing.BulkDiscountPercent}}%):</td><td>-{{money .Order.Pricing.BulkDiscountAmount}}</td></tr>
        {{end}}
        <tr class="grand"><td>Total:</td><td>{{money .Order.Pricing.FinalTotal}}</td></tr>
    </table>

    <div class="footer">
        {{if .Company.UPIPayeeID}}<p>Payments to UPI ID {{.Company.UPIPayeeID}}</p>{{end}}
        <p>Questions about this invoice? Contact {{.Company.Email}}</p>
    </div>
</body>
</html>
`
