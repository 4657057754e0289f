package processor

import (
	"github.com/shopspring/decimal"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// Request and response bodies of the processor's JSON API

type creditCardBody struct {
	Number          string       `json:"number,omitempty"`
	CVV             string       `json:"cvv,omitempty"`
	ExpirationMonth int          `json:"expiration_month,omitempty"`
	ExpirationYear  int          `json:"expiration_year,omitempty"`
	CardholderName  string       `json:"cardholder_name,omitempty"`
	Token           string       `json:"token,omitempty"`
	BillingAddress  *addressBody `json:"billing_address,omitempty"`
	Options         *vaultFlags  `json:"options,omitempty"`
}

type addressBody struct {
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Company           string `json:"company,omitempty"`
	StreetAddress     string `json:"street_address,omitempty"`
	ExtendedAddress   string `json:"extended_address,omitempty"`
	Locality          string `json:"locality,omitempty"`
	Region            string `json:"region,omitempty"`
	PostalCode        string `json:"postal_code,omitempty"`
	CountryCodeAlpha3 string `json:"country_code_alpha3,omitempty"`
}

type customerBody struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type threeDSecureBody struct {
	Required bool `json:"required"`
}

type transactionFlags struct {
	StoreInVaultOnSuccess bool              `json:"store_in_vault_on_success,omitempty"`
	SubmitForSettlement   bool              `json:"submit_for_settlement,omitempty"`
	ThreeDSecure          *threeDSecureBody `json:"three_d_secure,omitempty"`
}

type vaultFlags struct {
	VerifyCard   string `json:"verify_card,omitempty"`
	StoreInVault string `json:"store_in_vault,omitempty"`
}

type transactionRequest struct {
	Type               string           `json:"type"`
	Amount             string           `json:"amount"`
	MerchantAccountID  string           `json:"merchant_account_id,omitempty"`
	OrderID            string           `json:"order_id,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	CustomerIP         string           `json:"customer_ip,omitempty"`
	PaymentMethodNonce string           `json:"payment_method_nonce,omitempty"`
	PaymentMethodToken string           `json:"payment_method_token,omitempty"`
	CreditCard         *creditCardBody  `json:"credit_card,omitempty"`
	Customer           *customerBody    `json:"customer,omitempty"`
	Billing            *addressBody     `json:"billing,omitempty"`
	Options            transactionFlags `json:"options"`
}

type amountRequest struct {
	Amount string `json:"amount,omitempty"`
}

type customerRequest struct {
	FirstName  string          `json:"first_name,omitempty"`
	LastName   string          `json:"last_name,omitempty"`
	Email      string          `json:"email,omitempty"`
	CreditCard *creditCardBody `json:"credit_card"`
	Customer   *customerBody   `json:"customer,omitempty"`
	VerifyCard string          `json:"verify_card,omitempty"`
	Store      string          `json:"store,omitempty"`
}

type clientTokenRequest struct {
	CustomerID        string `json:"customer_id,omitempty"`
	MerchantAccountID string `json:"merchant_account_id,omitempty"`
	Version           int    `json:"version,omitempty"`
}

type validationError struct {
	Attribute string `json:"attribute"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type storedCard struct {
	Token    string `json:"token"`
	Last4    string `json:"last_4"`
	CardType string `json:"card_type"`
}

type customerRecord struct {
	ID          string       `json:"id"`
	CreditCards []storedCard `json:"credit_cards"`
}

type transactionRecord struct {
	ID                    string          `json:"id"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	ProcessorResponseCode string          `json:"processor_response_code"`
	CreditCardToken       string          `json:"credit_card_token"`
	CustomerID            string          `json:"customer_id"`
}

// resultEnvelope is the response of every mutating call
type resultEnvelope struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Transaction *transactionRecord `json:"transaction,omitempty"`
	Customer    *customerRecord    `json:"customer,omitempty"`
	Errors      []validationError  `json:"errors,omitempty"`
}

type clientTokenResponse struct {
	ClientToken string `json:"client_token"`
}

type nonceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// formatAmount renders cents in major units with two decimals
func formatAmount(amountCents int64) string {
	return decimal.New(amountCents, -2).StringFixed(2)
}

func newAddressBody(addr *domain.Address) *addressBody {
	if addr == nil {
		return nil
	}
	return &addressBody{
		FirstName:         addr.FirstName,
		LastName:          addr.LastName,
		Company:           addr.Company,
		StreetAddress:     addr.Address1,
		ExtendedAddress:   addr.Address2,
		Locality:          addr.City,
		Region:            addr.RegionName(),
		PostalCode:        addr.Zipcode,
		CountryCodeAlpha3: addr.CountryISO3(),
	}
}

func newStoreAddressBody(addr *ports.StoreAddress) *addressBody {
	if addr == nil {
		return nil
	}
	return &addressBody{
		Company:           addr.Company,
		StreetAddress:     addr.Address1,
		ExtendedAddress:   addr.Address2,
		Locality:          addr.City,
		Region:            addr.State,
		PostalCode:        addr.Zip,
		CountryCodeAlpha3: addr.CountryCodeAlpha3,
	}
}

// newTransactionRequest maps authorize options onto the wire
func newTransactionRequest(amountCents int64, merchantAccountID string, opts *ports.TransactionOptions) *transactionRequest {
	req := &transactionRequest{
		Type:               "sale",
		Amount:             formatAmount(amountCents),
		MerchantAccountID:  merchantAccountID,
		OrderID:            opts.OrderID,
		Currency:           opts.Currency,
		CustomerIP:         opts.IP,
		PaymentMethodNonce: opts.PaymentMethodNonce,
		PaymentMethodToken: opts.PaymentMethodToken,
		Billing:            newAddressBody(opts.BillingAddress),
		Options: transactionFlags{
			StoreInVaultOnSuccess: opts.Store,
			SubmitForSettlement:   opts.SubmitForSettlement,
		},
	}

	if opts.FirstName != "" || opts.LastName != "" || opts.Email != "" {
		req.Customer = &customerBody{FirstName: opts.FirstName, LastName: opts.LastName, Email: opts.Email}
	}
	if opts.Card != nil {
		req.CreditCard = &creditCardBody{
			Number:          opts.Card.Number,
			CVV:             opts.Card.VerificationValue,
			ExpirationMonth: opts.Card.Month,
			ExpirationYear:  opts.Card.Year,
			CardholderName:  opts.Card.Name,
		}
	}
	if opts.ThreeDSecure != nil {
		req.Options.ThreeDSecure = &threeDSecureBody{Required: opts.ThreeDSecure.Required}
	}
	return req
}

// newCustomerRequest maps a vault request onto the wire
func newCustomerRequest(pm *domain.PaymentMethod, opts *ports.StoreOptions) *customerRequest {
	req := &customerRequest{
		FirstName:  opts.FirstName,
		LastName:   opts.LastName,
		Email:      opts.Email,
		VerifyCard: opts.VerifyCard,
		Store:      opts.Store,
		CreditCard: &creditCardBody{
			Number:          pm.Number,
			CVV:             pm.VerificationValue,
			ExpirationMonth: pm.Month,
			ExpirationYear:  pm.Year,
			CardholderName:  pm.Name,
			BillingAddress:  newStoreAddressBody(opts.BillingAddress),
			Options: &vaultFlags{
				VerifyCard:   opts.Options.VerifyCard,
				StoreInVault: opts.Options.StoreInVault,
			},
		},
	}
	if opts.Customer != nil {
		req.Customer = &customerBody{
			FirstName: opts.Customer.FirstName,
			LastName:  opts.Customer.LastName,
			Email:     opts.Customer.Email,
		}
	}
	return req
}

// toResult converts the processor's envelope into the normalized result
func (e *resultEnvelope) toResult() *domain.TransactionResult {
	params := map[string]interface{}{}
	authorization := ""

	if txn := e.Transaction; txn != nil {
		authorization = txn.ID
		params[domain.ParamTransactionID] = txn.ID
		params[domain.ParamTransactionState] = txn.Status
		if txn.ProcessorResponseCode != "" {
			params[domain.ParamProcessorCode] = txn.ProcessorResponseCode
		}
		if txn.CreditCardToken != "" {
			params[domain.ParamCreditCardToken] = txn.CreditCardToken
		}
		if txn.CustomerID != "" {
			params[domain.ParamCustomerVaultID] = txn.CustomerID
		}
	}

	if c := e.Customer; c != nil {
		params[domain.ParamCustomerVaultID] = c.ID
		cards := make([]interface{}, 0, len(c.CreditCards))
		for _, card := range c.CreditCards {
			cards = append(cards, map[string]interface{}{
				domain.ParamCardToken:    card.Token,
				domain.ParamCardLastFour: card.Last4,
				domain.ParamCardType:     card.CardType,
			})
		}
		params[domain.ParamCustomer] = map[string]interface{}{
			domain.ParamCreditCards: cards,
		}
	}

	if !e.Success {
		return domain.NewFailureResult(e.failureMessage(), params)
	}
	return domain.NewSuccessResult(e.Message, authorization, params)
}

func (e *resultEnvelope) failureMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}
	return "processor rejected the request"
}
