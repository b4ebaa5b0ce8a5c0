package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/rezonia/fne-client/internal/model"
	"github.com/rezonia/fne-client/pkg/fnelib"
)

// documentFile is the JSON schema accepted by the sign and validate commands
type documentFile struct {
	InvoiceType         string           `json:"invoiceType"`
	PaymentMethod       string           `json:"paymentMethod"`
	Template            string           `json:"template"`
	PointOfSale         string           `json:"pointOfSale"`
	Establishment       string           `json:"establishment"`
	ClientCompanyName   string           `json:"clientCompanyName"`
	ClientPhone         string           `json:"clientPhone"`
	ClientEmail         string           `json:"clientEmail"`
	ClientNcc           string           `json:"clientNcc,omitempty"`
	ClientSellerName    string           `json:"clientSellerName,omitempty"`
	CommercialMessage   string           `json:"commercialMessage,omitempty"`
	Footer              string           `json:"footer,omitempty"`
	ForeignCurrency     string           `json:"foreignCurrency,omitempty"`
	ForeignCurrencyRate float64          `json:"foreignCurrencyRate,omitempty"`
	IsRne               bool             `json:"isRne,omitempty"`
	Rne                 string           `json:"rne,omitempty"`
	Discount            float64          `json:"discount,omitempty"`
	Items               []itemFile       `json:"items"`
	CustomTaxes         []customTaxFile  `json:"customTaxes,omitempty"`
}

type itemFile struct {
	Description     string          `json:"description"`
	Quantity        float64         `json:"quantity"`
	Amount          float64         `json:"amount"`
	Taxes           []string        `json:"taxes"`
	Reference       string          `json:"reference,omitempty"`
	Discount        float64         `json:"discount,omitempty"`
	MeasurementUnit string          `json:"measurementUnit,omitempty"`
	CustomTaxes     []customTaxFile `json:"customTaxes,omitempty"`
}

type customTaxFile struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// loadDocument reads a JSON document file into the invoice model.
// Construction is permissive: field errors surface at validation time.
func loadDocument(path string) (*fnelib.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid document JSON in %s: %w", path, err)
	}

	inv := &fnelib.Invoice{
		Type:                model.InvoiceType(doc.InvoiceType),
		PaymentMethod:       model.PaymentMethod(doc.PaymentMethod),
		Template:            model.Template(doc.Template),
		PointOfSale:         doc.PointOfSale,
		Establishment:       doc.Establishment,
		ClientCompanyName:   doc.ClientCompanyName,
		ClientPhone:         doc.ClientPhone,
		ClientEmail:         doc.ClientEmail,
		ClientNcc:           doc.ClientNcc,
		ClientSellerName:    doc.ClientSellerName,
		CommercialMessage:   doc.CommercialMessage,
		Footer:              doc.Footer,
		ForeignCurrency:     doc.ForeignCurrency,
		ForeignCurrencyRate: decimal.NewFromFloat(doc.ForeignCurrencyRate),
		IsRne:               doc.IsRne,
		Rne:                 doc.Rne,
		Discount:            decimal.NewFromFloat(doc.Discount),
	}

	for _, item := range doc.Items {
		taxes := make([]model.TaxType, 0, len(item.Taxes))
		for _, t := range item.Taxes {
			taxes = append(taxes, model.TaxType(t))
		}
		inv.AddItem(fnelib.LineItem{
			Description:     item.Description,
			Quantity:        decimal.NewFromFloat(item.Quantity),
			UnitAmount:      decimal.NewFromFloat(item.Amount),
			Taxes:           taxes,
			Discount:        decimal.NewFromFloat(item.Discount),
			Reference:       item.Reference,
			MeasurementUnit: item.MeasurementUnit,
			CustomTaxes:     customTaxes(item.CustomTaxes),
		})
	}
	inv.CustomTaxes = customTaxes(doc.CustomTaxes)

	return inv, nil
}

// customTaxes converts file entries without the eager constructor so invalid
// entries surface as validation errors rather than load failures
func customTaxes(entries []customTaxFile) []model.CustomTax {
	out := make([]model.CustomTax, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.CustomTax{Name: e.Name, Amount: decimal.NewFromFloat(e.Amount)})
	}
	return out
}
