package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionStatus is the processor-side lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusAuthorizing            TransactionStatus = "authorizing"
	TransactionStatusAuthorized             TransactionStatus = "authorized"
	TransactionStatusAuthorizationExpired   TransactionStatus = "authorization_expired"
	TransactionStatusSubmittedForSettlement TransactionStatus = "submitted_for_settlement" // queued, settlement not yet begun
	TransactionStatusSettling               TransactionStatus = "settling"
	TransactionStatusSettlementPending      TransactionStatus = "settlement_pending"
	TransactionStatusSettlementDeclined     TransactionStatus = "settlement_declined"
	TransactionStatusSettled                TransactionStatus = "settled"
	TransactionStatusVoided                 TransactionStatus = "voided"
	TransactionStatusProcessorDeclined      TransactionStatus = "processor_declined"
	TransactionStatusGatewayRejected        TransactionStatus = "gateway_rejected"
	TransactionStatusFailed                 TransactionStatus = "failed"
)

// RemoteTransaction is the processor's record of a transaction as returned by a lookup
type RemoteTransaction struct {
	ID     string            `json:"id"`
	Status TransactionStatus `json:"status"`
	Amount decimal.Decimal   `json:"amount"` // major units, e.g. 100.00
}

// AmountCents returns the recorded amount converted to minor units.
func (t *RemoteTransaction) AmountCents() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(100))
}

// CancelStrategy is the reversal path chosen for a cancel request
type CancelStrategy string

const (
	CancelVoid   CancelStrategy = "void"
	CancelRefund CancelStrategy = "refund"
)

// Well-known keys of TransactionResult.Params
const (
	ParamCreditCardToken  = "credit_card_token"
	ParamCustomerVaultID  = "customer_vault_id"
	ParamCustomer         = "braintree_customer"
	ParamCreditCards      = "credit_cards"
	ParamCardLastFour     = "last_4"
	ParamCardToken        = "token"
	ParamCardType         = "card_type"
	ParamTransactionID    = "transaction_id"
	ParamProcessorCode    = "processor_response_code"
	ParamTransactionState = "status"
)

// TransactionResult is the normalized outcome of one processor call.
// It is built once and never mutated afterwards.
type TransactionResult struct {
	success       bool
	message       string
	authorization string
	params        map[string]interface{}
}

// NewSuccessResult builds an approved result.
func NewSuccessResult(message, authorization string, params map[string]interface{}) *TransactionResult {
	return newResult(true, message, authorization, params)
}

// NewFailureResult builds a declined or rejected result.
func NewFailureResult(message string, params map[string]interface{}) *TransactionResult {
	return newResult(false, message, "", params)
}

func newResult(success bool, message, authorization string, params map[string]interface{}) *TransactionResult {
	copied := make(map[string]interface{}, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return &TransactionResult{
		success:       success,
		message:       message,
		authorization: authorization,
		params:        copied,
	}
}

// Success reports whether the processor approved the call
func (r *TransactionResult) Success() bool { return r.success }

// Message is the processor's human-readable response text
func (r *TransactionResult) Message() string { return r.message }

// Authorization is the processor's reference code for follow-up calls
func (r *TransactionResult) Authorization() string { return r.authorization }

// Param returns a raw processor field.
func (r *TransactionResult) Param(key string) (interface{}, bool) {
	v, ok := r.params[key]
	return v, ok
}

// StringParam returns a raw processor field as a string, or "" when absent or not a string.
func (r *TransactionResult) StringParam(key string) string {
	v, ok := r.params[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Params returns a copy of all raw processor fields.
func (r *TransactionResult) Params() map[string]interface{} {
	copied := make(map[string]interface{}, len(r.params))
	for k, v := range r.params {
		copied[k] = v
	}
	return copied
}

// StoredCard returns the first vaulted card of a store response, if any.
func (r *TransactionResult) StoredCard() (map[string]interface{}, bool) {
	customer, ok := r.params[ParamCustomer].(map[string]interface{})
	if !ok {
		return nil, false
	}
	cards, ok := customer[ParamCreditCards].([]interface{})
	if !ok || len(cards) == 0 {
		return nil, false
	}
	card, ok := cards[0].(map[string]interface{})
	return card, ok
}
