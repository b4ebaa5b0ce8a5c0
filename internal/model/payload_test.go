package model_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fne-client/internal/model"
)

func saleInvoice() *model.Invoice {
	inv := model.NewSaleInvoice(model.PaymentCash, model.TemplateB2C)
	inv.PointOfSale = "Abidjan-01"
	inv.Establishment = "Plateau"
	inv.ClientCompanyName = "Client SARL"
	inv.ClientPhone = "+225 07 08 09 10 11"
	inv.ClientEmail = "compta@client.ci"
	inv.AddItem(model.LineItem{
		Description: "Sacs de ciment",
		Quantity:    decimal.NewFromInt(1),
		UnitAmount:  decimal.NewFromInt(10000),
		Taxes:       []model.TaxType{model.TaxTVA},
	})
	return inv
}

func marshalPayload(t *testing.T, inv *model.Invoice) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(inv.Payload())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestPayload_MandatoryKeys(t *testing.T) {
	decoded := marshalPayload(t, saleInvoice())

	for _, key := range []string{
		"invoiceType", "paymentMethod", "template", "pointOfSale", "establishment",
		"clientCompanyName", "clientPhone", "clientEmail", "isRne", "items",
	} {
		assert.Contains(t, decoded, key, "mandatory key %s missing", key)
	}

	assert.Equal(t, "sale", decoded["invoiceType"])
	assert.Equal(t, false, decoded["isRne"])
}

func TestPayload_CurrencyPairAlwaysEmitted(t *testing.T) {
	// The pair is present even for non-export documents, defaulting to ""/0
	decoded := marshalPayload(t, saleInvoice())

	require.Contains(t, decoded, "foreignCurrency")
	require.Contains(t, decoded, "foreignCurrencyRate")
	assert.Equal(t, "", decoded["foreignCurrency"])
	assert.Equal(t, float64(0), decoded["foreignCurrencyRate"])
}

func TestPayload_OmitsZeroOptionalFields(t *testing.T) {
	decoded := marshalPayload(t, saleInvoice())

	assert.NotContains(t, decoded, "discount")
	assert.NotContains(t, decoded, "rne")
	assert.NotContains(t, decoded, "clientNcc")
	assert.NotContains(t, decoded, "customTaxes")

	item := decoded["items"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, item, "discount")
	assert.NotContains(t, item, "reference")
	assert.NotContains(t, item, "measurementUnit")
}

func TestPayload_ItemDiscountAndCustomTax(t *testing.T) {
	inv := saleInvoice()
	inv.Items[0].Discount = decimal.NewFromInt(10)
	tax, err := model.NewCustomTax("DTD", decimal.NewFromInt(1000))
	require.NoError(t, err)
	inv.Items[0].CustomTaxes = []model.CustomTax{tax}

	decoded := marshalPayload(t, inv)
	item := decoded["items"].([]interface{})[0].(map[string]interface{})

	assert.Equal(t, float64(10), item["discount"])

	customTaxes := item["customTaxes"].([]interface{})
	require.Len(t, customTaxes, 1)
	entry := customTaxes[0].(map[string]interface{})
	assert.Equal(t, "DTD", entry["name"])
	assert.Equal(t, float64(1000), entry["amount"])
}

func TestPayload_ItemShape(t *testing.T) {
	decoded := marshalPayload(t, saleInvoice())
	item := decoded["items"].([]interface{})[0].(map[string]interface{})

	assert.Equal(t, "Sacs de ciment", item["description"])
	assert.Equal(t, float64(1), item["quantity"])
	assert.Equal(t, float64(10000), item["amount"])
	assert.Equal(t, []interface{}{"TVA"}, item["taxes"])
}

func TestRefundPayload(t *testing.T) {
	payload := model.NewRefundPayload(
		model.NewRefundItem("item-1", decimal.NewFromInt(2)),
		model.NewRefundItem("item-2", decimal.NewFromFloat(0.5)),
	)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"item-1","quantity":2},{"id":"item-2","quantity":0.5}]}`, string(data))
}
