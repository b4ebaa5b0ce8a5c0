package server

import (
	"github.com/rezonia/fne-client/internal/model"
)

// SignBody is the sandbox response for the sign endpoint, mirroring the
// fields the real service returns.
type SignBody struct {
	Ncc            string               `json:"ncc"`
	Reference      string               `json:"reference"`
	Token          string               `json:"token"`
	Warning        bool                 `json:"warning"`
	BalanceSticker int64                `json:"balance_sticker"`
	Invoice        model.InvoicePayload `json:"invoice"`
}

// RefundBody is the sandbox response for the refund endpoint
type RefundBody struct {
	Reference      string `json:"reference"`
	Refunded       string `json:"refunded"`
	Token          string `json:"token"`
	Warning        bool   `json:"warning"`
	BalanceSticker int64  `json:"balance_sticker"`
}

// ErrorBody is the standard sandbox error response
type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
