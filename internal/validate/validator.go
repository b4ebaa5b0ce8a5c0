// Package validate implements the rule engine run against an invoice before
// any network call. Rules are evaluated in fixed phases and every violation is
// collected under a stable field-path key; sibling checks never short-circuit
// each other. Item-level checks are the one exception: they are skipped
// entirely when the document has no items, since each would be meaningless.
package validate

import (
	"fmt"

	"github.com/rezonia/fne-client/internal/model"
	"github.com/rezonia/fne-client/internal/money"
)

// Invoice validates the whole document graph. It returns nil when every rule
// passes, or a *model.ValidationError carrying the complete keyed error set.
func Invoice(inv *model.Invoice) error {
	v := &validator{inv: inv, errs: model.NewErrorSet()}

	v.checkClassification()
	v.checkClient()
	v.checkTemplate()
	v.checkItems()
	v.checkOptional()

	if v.errs.Len() > 0 {
		return model.NewValidationError(v.errs)
	}
	return nil
}

type validator struct {
	inv  *model.Invoice
	errs *model.ErrorSet
}

// checkClassification verifies the base classification fields against their
// closed allowed-value sets.
func (v *validator) checkClassification() {
	inv := v.inv

	if inv.Type == "" {
		v.errs.Add("invoiceType", "invoice type is required")
	} else if !model.ValidInvoiceType(inv.Type) {
		v.errs.Addf("invoiceType", "invalid invoice type %q", inv.Type)
	}

	if inv.PaymentMethod == "" {
		v.errs.Add("paymentMethod", "payment method is required")
	} else if !model.ValidPaymentMethod(inv.PaymentMethod) {
		v.errs.Addf("paymentMethod", "invalid payment method %q", inv.PaymentMethod)
	}

	if inv.Template == "" {
		v.errs.Add("template", "template is required")
	} else if !model.ValidTemplate(inv.Template) {
		v.errs.Addf("template", "invalid template %q", inv.Template)
	}

	if inv.PointOfSale == "" {
		v.errs.Add("pointOfSale", "point of sale is required")
	}
	if inv.Establishment == "" {
		v.errs.Add("establishment", "establishment is required")
	}
}

// checkClient verifies the client party fields
func (v *validator) checkClient() {
	inv := v.inv

	if inv.ClientCompanyName == "" {
		v.errs.Add("clientCompanyName", "client company name is required")
	}

	if inv.ClientPhone == "" {
		v.errs.Add("clientPhone", "client phone is required")
	} else if !ValidPhone(inv.ClientPhone) {
		v.errs.Addf("clientPhone", "invalid Ivorian phone number %q", inv.ClientPhone)
	}

	if inv.ClientEmail == "" {
		v.errs.Add("clientEmail", "client email is required")
	} else if !ValidEmail(inv.ClientEmail) {
		v.errs.Addf("clientEmail", "invalid email address %q", inv.ClientEmail)
	}
}

// checkTemplate applies the regime-specific rules: B2B needs an NCC, B2F
// needs a currency from the allowed set and a positive exchange rate. The
// missing-currency and non-positive-rate violations are reported separately.
func (v *validator) checkTemplate() {
	inv := v.inv

	if inv.Template == model.TemplateB2B {
		if inv.ClientNcc == "" {
			v.errs.Add("clientNcc", "client NCC is required for B2B invoices")
		} else if !ValidNcc(inv.ClientNcc) {
			v.errs.Addf("clientNcc", "invalid NCC %q: expected 7 digits followed by an uppercase letter", inv.ClientNcc)
		}
	}

	if inv.Template == model.TemplateB2F {
		if inv.ForeignCurrency == "" {
			v.errs.Add("foreignCurrency", "foreign currency is required for B2F invoices")
		} else if !model.ValidCurrency(inv.ForeignCurrency) {
			v.errs.Addf("foreignCurrency", "unsupported currency %q", inv.ForeignCurrency)
		}
		if !money.IsPositive(inv.ForeignCurrencyRate) {
			v.errs.Add("foreignCurrencyRate", "exchange rate must be greater than zero for B2F invoices")
		}
	}
}

// checkItems validates every line item. When the document has no items a
// single "items" violation is recorded and all item-level checks are skipped.
func (v *validator) checkItems() {
	inv := v.inv

	if len(inv.Items) == 0 {
		v.errs.Add("items", "at least one line item is required")
		return
	}

	for i, item := range inv.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		if item.Description == "" {
			v.errs.Add(prefix+".description", "description is required")
		}
		if !money.IsPositive(item.Quantity) {
			v.errs.Add(prefix+".quantity", "quantity must be greater than zero")
		}
		if !money.IsPositive(item.UnitAmount) {
			v.errs.Add(prefix+".amount", "amount must be greater than zero")
		}

		if inv.Type == model.InvoiceTypeSale {
			if len(item.Taxes) == 0 {
				v.errs.Add(prefix+".taxes", "at least one tax type is required on sale invoices")
			}
			for j, tax := range item.Taxes {
				if !model.ValidTaxType(tax) {
					v.errs.Addf(fmt.Sprintf("%s.taxes[%d]", prefix, j), "invalid tax type %q", tax)
				}
			}
		}

		if !money.IsPercentage(item.Discount) {
			v.errs.Add(prefix+".discount", "discount must be between 0 and 100")
		}

		v.checkCustomTaxes(prefix+".customTaxes", item.CustomTaxes)
	}
}

// checkOptional validates document-level optional fields
func (v *validator) checkOptional() {
	inv := v.inv

	// Outside the B2F regime a currency may still be set; it must then come
	// from the allowed set.
	if inv.Template != model.TemplateB2F && inv.ForeignCurrency != "" && !model.ValidCurrency(inv.ForeignCurrency) {
		v.errs.Addf("foreignCurrency", "unsupported currency %q", inv.ForeignCurrency)
	}

	if !money.IsPercentage(inv.Discount) {
		v.errs.Add("discount", "discount must be between 0 and 100")
	}

	if inv.IsRne && inv.Rne == "" {
		v.errs.Add("rne", "RNE number is required when isRne is set")
	}

	v.checkCustomTaxes("customTaxes", inv.CustomTaxes)
}

func (v *validator) checkCustomTaxes(prefix string, taxes []model.CustomTax) {
	for i, tax := range taxes {
		if tax.Name == "" {
			v.errs.Add(fmt.Sprintf("%s[%d].name", prefix, i), "custom tax name is required")
		}
		if !money.IsNonNegative(tax.Amount) {
			v.errs.Add(fmt.Sprintf("%s[%d].amount", prefix, i), "custom tax amount must not be negative")
		}
	}
}
