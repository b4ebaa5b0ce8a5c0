// Package fnelib provides a public API for submitting electronic invoices to
// the Ivorian FNE signing service.
//
// This package exposes the document model, the validation engine and a client
// that validates, serializes and submits invoices with bounded retries.
//
// Example usage:
//
//	client := fnelib.NewClient(fnelib.Config{
//	    BaseURL: fnelib.TestBaseURL,
//	    Token:   os.Getenv("FNE_API_TOKEN"),
//	})
//
//	inv := fnelib.NewSaleInvoice(fnelib.PaymentCash, fnelib.TemplateB2C)
//	// ... populate fields and items ...
//
//	result, err := client.Sign(ctx, inv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Reference)
package fnelib

import "github.com/rezonia/fne-client/internal/model"

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	LineItem      = model.LineItem
	CustomTax     = model.CustomTax
	InvoiceType   = model.InvoiceType
	PaymentMethod = model.PaymentMethod
	Template      = model.Template
	TaxType       = model.TaxType
	SignResponse  = model.SignResponse
	RefundItem    = model.RefundItemPayload
)

// Re-export invoice types
const (
	InvoiceTypeSale     = model.InvoiceTypeSale
	InvoiceTypePurchase = model.InvoiceTypePurchase
)

// Re-export payment methods
const (
	PaymentCash        = model.PaymentCash
	PaymentCard        = model.PaymentCard
	PaymentCheck       = model.PaymentCheck
	PaymentTransfer    = model.PaymentTransfer
	PaymentMobileMoney = model.PaymentMobileMoney
	PaymentDeferred    = model.PaymentDeferred
)

// Re-export templates
const (
	TemplateB2C = model.TemplateB2C
	TemplateB2B = model.TemplateB2B
	TemplateB2F = model.TemplateB2F
	TemplateB2G = model.TemplateB2G
)

// Re-export tax types
const (
	TaxTVA  = model.TaxTVA
	TaxTVAB = model.TaxTVAB
	TaxTVAC = model.TaxTVAC
	TaxTVAD = model.TaxTVAD
)

// Re-export error types
type (
	APIError        = model.APIError
	ErrorKind       = model.ErrorKind
	ErrorSet        = model.ErrorSet
	ValidationError = model.ValidationError
	AuthError       = model.AuthError
	RemoteError     = model.RemoteError
	TransportError  = model.TransportError
)

// Re-export error kinds
const (
	KindValidation = model.KindValidation
	KindAuth       = model.KindAuth
	KindRemote     = model.KindRemote
	KindTransport  = model.KindTransport
)

// Re-export factory constructors
var (
	NewSaleInvoice     = model.NewSaleInvoice
	NewPurchaseInvoice = model.NewPurchaseInvoice
	NewCustomTax       = model.NewCustomTax
	NewRefundItem      = model.NewRefundItem
)
