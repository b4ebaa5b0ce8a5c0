package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceType categorizes the direction of an invoice
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "sale"
	InvoiceTypePurchase InvoiceType = "purchase"
)

// PaymentMethod is the means of payment declared on the invoice
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentCheck       PaymentMethod = "check"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentMobileMoney PaymentMethod = "mobile-money"
	PaymentDeferred    PaymentMethod = "deferred"
)

// Template is the invoicing regime, which decides the mandatory fields:
// B2B requires the client NCC, B2F requires a foreign currency and rate.
type Template string

const (
	TemplateB2C Template = "B2C"
	TemplateB2B Template = "B2B"
	TemplateB2F Template = "B2F"
	TemplateB2G Template = "B2G"
)

// TaxType is one of the standard tax-type codes accepted by the authority
type TaxType string

const (
	TaxTVA  TaxType = "TVA"
	TaxTVAB TaxType = "TVAB"
	TaxTVAC TaxType = "TVAC"
	TaxTVAD TaxType = "TVAD"
)

// ForeignCurrencies is the closed set of currency codes accepted for
// export-regime invoices.
var ForeignCurrencies = []string{"USD", "EUR", "GBP", "CHF", "CAD", "JPY", "CNY", "AUD"}

// ValidInvoiceType reports whether t belongs to the closed invoice-type set
func ValidInvoiceType(t InvoiceType) bool {
	return t == InvoiceTypeSale || t == InvoiceTypePurchase
}

// ValidPaymentMethod reports whether m belongs to the closed payment-method set
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCheck, PaymentTransfer, PaymentMobileMoney, PaymentDeferred:
		return true
	}
	return false
}

// ValidTemplate reports whether t belongs to the closed template set
func ValidTemplate(t Template) bool {
	switch t {
	case TemplateB2C, TemplateB2B, TemplateB2F, TemplateB2G:
		return true
	}
	return false
}

// ValidTaxType reports whether t belongs to the closed tax-type set
func ValidTaxType(t TaxType) bool {
	switch t {
	case TaxTVA, TaxTVAB, TaxTVAC, TaxTVAD:
		return true
	}
	return false
}

// ValidCurrency reports whether code is an accepted foreign currency
func ValidCurrency(code string) bool {
	for _, c := range ForeignCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// CustomTax is an ad-hoc named levy attached to an invoice or a line item,
// distinct from the standard tax-type codes. Unlike invoice fields, which are
// validated lazily, a CustomTax is validated at construction.
type CustomTax struct {
	Name   string
	Amount decimal.Decimal
}

// NewCustomTax builds a custom tax entry. The name is trimmed and must be
// non-empty; the amount must be non-negative.
func NewCustomTax(name string, amount decimal.Decimal) (CustomTax, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CustomTax{}, ErrEmptyCustomTaxName
	}
	if amount.IsNegative() {
		return CustomTax{}, ErrNegativeCustomTaxAmount
	}
	return CustomTax{Name: name, Amount: amount}, nil
}

// LineItem is one line of an invoice. Construction is permissive: all
// constraints are enforced by the validation engine, not here.
type LineItem struct {
	Description     string
	Quantity        decimal.Decimal
	UnitAmount      decimal.Decimal
	Taxes           []TaxType
	Discount        decimal.Decimal // percent, 0-100
	Reference       string
	MeasurementUnit string
	CustomTaxes     []CustomTax
}

// Invoice is the aggregate root for one document submitted to the signing
// service. It owns its line items and custom taxes; items are append-only and
// keep insertion order.
type Invoice struct {
	Type          InvoiceType
	PaymentMethod PaymentMethod
	Template      Template

	PointOfSale   string
	Establishment string

	ClientCompanyName string
	ClientPhone       string
	ClientEmail       string
	ClientNcc         string
	ClientSellerName  string

	CommercialMessage string
	Footer            string

	ForeignCurrency     string
	ForeignCurrencyRate decimal.Decimal

	IsRne bool
	Rne   string

	Discount decimal.Decimal // global discount percent, 0-100

	Items       []LineItem
	CustomTaxes []CustomTax
}

// NewSaleInvoice creates a sale invoice with the given payment method and
// template. Remaining fields are filled in by the caller before validation.
func NewSaleInvoice(method PaymentMethod, template Template) *Invoice {
	return &Invoice{
		Type:          InvoiceTypeSale,
		PaymentMethod: method,
		Template:      template,
	}
}

// NewPurchaseInvoice creates a purchase invoice with the given payment method
// and template.
func NewPurchaseInvoice(method PaymentMethod, template Template) *Invoice {
	return &Invoice{
		Type:          InvoiceTypePurchase,
		PaymentMethod: method,
		Template:      template,
	}
}

// AddItem appends a line item, preserving insertion order
func (inv *Invoice) AddItem(item LineItem) *Invoice {
	inv.Items = append(inv.Items, item)
	return inv
}

// AddCustomTax attaches a document-level custom tax
func (inv *Invoice) AddCustomTax(tax CustomTax) *Invoice {
	inv.CustomTaxes = append(inv.CustomTaxes, tax)
	return inv
}

// SetForeignCurrency sets the export currency pair
func (inv *Invoice) SetForeignCurrency(code string, rate decimal.Decimal) *Invoice {
	inv.ForeignCurrency = code
	inv.ForeignCurrencyRate = rate
	return inv
}

// SetRne marks the invoice as a normalized receipt with its RNE number
func (inv *Invoice) SetRne(number string) *Invoice {
	inv.IsRne = true
	inv.Rne = number
	return inv
}
