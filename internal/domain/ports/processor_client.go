package ports

import (
	"context"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
)

// ThreeDSecureOptions controls strong customer authentication on a transaction
type ThreeDSecureOptions struct {
	Required bool
}

// CardFields carries raw card data for a card that has not been vaulted yet
type CardFields struct {
	Number            string
	VerificationValue string
	Month             int
	Year              int
	Name              string
}

// TransactionOptions is the option bag sent with an authorize or sale
type TransactionOptions struct {
	OrderID  string
	Email    string
	Currency string
	IP       string

	FirstName      string
	LastName       string
	BillingAddress *domain.Address // omitted when the processor already has a customer profile

	// Exactly how the card is identified depends on its vault state
	PaymentMethodNonce string
	PaymentMethodToken string
	Card               *CardFields

	Store               bool // ask the processor to vault the instrument
	SubmitForSettlement bool // sale instead of authorize-only
	ThreeDSecure        *ThreeDSecureOptions
}

// Clone returns a copy whose pointer fields can be changed without touching the caller's options.
func (o *TransactionOptions) Clone() *TransactionOptions {
	if o == nil {
		return &TransactionOptions{}
	}
	c := *o
	if o.BillingAddress != nil {
		addr := *o.BillingAddress
		c.BillingAddress = &addr
	}
	if o.Card != nil {
		card := *o.Card
		c.Card = &card
	}
	if o.ThreeDSecure != nil {
		tds := *o.ThreeDSecure
		c.ThreeDSecure = &tds
	}
	return &c
}

// StoreAddress is the billing address shape of a vault request
type StoreAddress struct {
	Address1          string
	Address2          string
	Company           string
	City              string
	State             string
	CountryCodeAlpha3 string
	Zip               string
}

// StoreCustomer mirrors the customer's name and email on a vault request
type StoreCustomer struct {
	FirstName string
	LastName  string
	Email     string
}

// StoreFlags are the processor's nested vault options
type StoreFlags struct {
	VerifyCard   string
	StoreInVault string
}

// StoreOptions is the payload of a customer profile / card vault request
type StoreOptions struct {
	Email          string
	FirstName      string
	LastName       string
	BillingAddress *StoreAddress
	Customer       *StoreCustomer
	Options        StoreFlags
	VerifyCard     string
	Store          string
}

// ClientTokenOptions parameterizes a client token; every field is optional
type ClientTokenOptions struct {
	CustomerID        string
	MerchantAccountID string
	Version           int
}

// ProcessorClient is the port to the card processor's transaction API.
//
// Declines and validation failures come back as an unsuccessful
// TransactionResult with a nil error. A non-nil error means the call did not
// complete (transport failure, malformed response, open circuit).
type ProcessorClient interface {
	// Authorize reserves funds, or settles them when opts.SubmitForSettlement is set
	Authorize(ctx context.Context, amountCents int64, opts *TransactionOptions) (*domain.TransactionResult, error)

	// Capture settles a previous authorization
	Capture(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error)

	// Refund returns the full amount of a settled or settling transaction
	Refund(ctx context.Context, referenceCode string) (*domain.TransactionResult, error)

	// PartialRefund returns part of a settled or settling transaction
	PartialRefund(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error)

	// Void cancels a transaction whose settlement has not begun
	Void(ctx context.Context, referenceCode string) (*domain.TransactionResult, error)

	// Store creates a customer profile and vaults the card
	Store(ctx context.Context, pm *domain.PaymentMethod, opts *StoreOptions) (*domain.TransactionResult, error)

	// Credit pays out to a stored card without a prior transaction (requires processor opt-in)
	Credit(ctx context.Context, amountCents int64, pm *domain.PaymentMethod) (*domain.TransactionResult, error)

	// FindTransaction looks up the processor's current record of a transaction
	FindTransaction(ctx context.Context, referenceCode string) (*domain.RemoteTransaction, error)

	// GenerateClientToken issues a token for the client-side SDK
	GenerateClientToken(ctx context.Context, opts *ClientTokenOptions) (string, error)

	// GenerateNonce exchanges a vault token for a single-use nonce
	GenerateNonce(ctx context.Context, token string) (string, error)
}
