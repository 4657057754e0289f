package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// NewRemoteTransaction returns a processor transaction record
func NewRemoteTransaction(id string, status domain.TransactionStatus, amount string) *domain.RemoteTransaction {
	return &domain.RemoteTransaction{
		ID:     id,
		Status: status,
		Amount: decimal.RequireFromString(amount),
	}
}

// ApprovedResult returns a successful result with the given params
func ApprovedResult(authorization string, params map[string]interface{}) *domain.TransactionResult {
	return domain.NewSuccessResult("1000 Approved", authorization, params)
}

// DeclinedResult returns a failed result carrying the processor message
func DeclinedResult(message string) *domain.TransactionResult {
	return domain.NewFailureResult(message, nil)
}

// StoredCustomerParams returns vault response params for one stored card
func StoredCustomerParams(customerID, token, last4, cardType string) map[string]interface{} {
	return map[string]interface{}{
		domain.ParamCustomerVaultID: customerID,
		domain.ParamCustomer: map[string]interface{}{
			domain.ParamCreditCards: []interface{}{
				map[string]interface{}{
					domain.ParamCardToken:    token,
					domain.ParamCardLastFour: last4,
					domain.ParamCardType:     cardType,
				},
			},
		},
	}
}
