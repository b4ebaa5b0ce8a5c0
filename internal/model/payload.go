package model

import (
	"github.com/shopspring/decimal"
)

// CustomTaxPayload is the wire form of a custom tax entry
type CustomTaxPayload struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ItemPayload is the wire form of a line item. Optional fields with zero
// values are omitted.
type ItemPayload struct {
	Description     string             `json:"description"`
	Quantity        float64            `json:"quantity"`
	Amount          float64            `json:"amount"`
	Taxes           []string           `json:"taxes"`
	Reference       string             `json:"reference,omitempty"`
	Discount        float64            `json:"discount,omitempty"`
	MeasurementUnit string             `json:"measurementUnit,omitempty"`
	CustomTaxes     []CustomTaxPayload `json:"customTaxes,omitempty"`
}

// InvoicePayload is the request body for the sign operation. Mandatory keys
// are always present; isRne and the foreignCurrency/foreignCurrencyRate pair
// are emitted even when unset, matching the service contract.
type InvoicePayload struct {
	InvoiceType         string             `json:"invoiceType"`
	PaymentMethod       string             `json:"paymentMethod"`
	Template            string             `json:"template"`
	IsRne               bool               `json:"isRne"`
	Rne                 string             `json:"rne,omitempty"`
	ClientNcc           string             `json:"clientNcc,omitempty"`
	ClientCompanyName   string             `json:"clientCompanyName"`
	ClientPhone         string             `json:"clientPhone"`
	ClientEmail         string             `json:"clientEmail"`
	ClientSellerName    string             `json:"clientSellerName,omitempty"`
	PointOfSale         string             `json:"pointOfSale"`
	Establishment       string             `json:"establishment"`
	CommercialMessage   string             `json:"commercialMessage,omitempty"`
	Footer              string             `json:"footer,omitempty"`
	ForeignCurrency     string             `json:"foreignCurrency"`
	ForeignCurrencyRate float64            `json:"foreignCurrencyRate"`
	Items               []ItemPayload      `json:"items"`
	CustomTaxes         []CustomTaxPayload `json:"customTaxes,omitempty"`
	Discount            float64            `json:"discount,omitempty"`
}

// RefundItemPayload identifies one signed line item and the quantity refunded
type RefundItemPayload struct {
	ID       string  `json:"id"`
	Quantity float64 `json:"quantity"`
}

// RefundPayload is the request body for the refund operation
type RefundPayload struct {
	Items []RefundItemPayload `json:"items"`
}

// SignResponse is the decoded success body of a sign or refund call.
// StatusCode is injected locally from the transport status, it is not part of
// the remote payload.
type SignResponse struct {
	Ncc            string                 `json:"ncc"`
	Reference      string                 `json:"reference"`
	Token          string                 `json:"token"`
	Warning        bool                   `json:"warning"`
	BalanceSticker int64                  `json:"balance_sticker"`
	Invoice        map[string]interface{} `json:"invoice"`
	StatusCode     int                    `json:"statusCode"`
}

// Payload converts the invoice to its wire form
func (inv *Invoice) Payload() *InvoicePayload {
	p := &InvoicePayload{
		InvoiceType:         string(inv.Type),
		PaymentMethod:       string(inv.PaymentMethod),
		Template:            string(inv.Template),
		IsRne:               inv.IsRne,
		Rne:                 inv.Rne,
		ClientNcc:           inv.ClientNcc,
		ClientCompanyName:   inv.ClientCompanyName,
		ClientPhone:         inv.ClientPhone,
		ClientEmail:         inv.ClientEmail,
		ClientSellerName:    inv.ClientSellerName,
		PointOfSale:         inv.PointOfSale,
		Establishment:       inv.Establishment,
		CommercialMessage:   inv.CommercialMessage,
		Footer:              inv.Footer,
		ForeignCurrency:     inv.ForeignCurrency,
		ForeignCurrencyRate: inv.ForeignCurrencyRate.InexactFloat64(),
		Items:               make([]ItemPayload, 0, len(inv.Items)),
		Discount:            inv.Discount.InexactFloat64(),
	}

	for _, item := range inv.Items {
		p.Items = append(p.Items, item.payload())
	}
	if len(inv.CustomTaxes) > 0 {
		p.CustomTaxes = customTaxPayloads(inv.CustomTaxes)
	}

	return p
}

func (item *LineItem) payload() ItemPayload {
	taxes := make([]string, 0, len(item.Taxes))
	for _, t := range item.Taxes {
		taxes = append(taxes, string(t))
	}

	p := ItemPayload{
		Description:     item.Description,
		Quantity:        item.Quantity.InexactFloat64(),
		Amount:          item.UnitAmount.InexactFloat64(),
		Taxes:           taxes,
		Reference:       item.Reference,
		Discount:        item.Discount.InexactFloat64(),
		MeasurementUnit: item.MeasurementUnit,
	}
	if len(item.CustomTaxes) > 0 {
		p.CustomTaxes = customTaxPayloads(item.CustomTaxes)
	}
	return p
}

func customTaxPayloads(taxes []CustomTax) []CustomTaxPayload {
	out := make([]CustomTaxPayload, 0, len(taxes))
	for _, t := range taxes {
		out = append(out, CustomTaxPayload{Name: t.Name, Amount: t.Amount.InexactFloat64()})
	}
	return out
}

// NewRefundItem builds one refund line from a signed item id and quantity
func NewRefundItem(id string, quantity decimal.Decimal) RefundItemPayload {
	return RefundItemPayload{ID: id, Quantity: quantity.InexactFloat64()}
}

// NewRefundPayload builds a refund body, keeping item order
func NewRefundPayload(items ...RefundItemPayload) *RefundPayload {
	return &RefundPayload{Items: items}
}
