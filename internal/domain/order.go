package domain

// Payment is a single payment made against an order with a payment method.
type Payment struct {
	Identifier string         `json:"identifier"`
	Order      *Order         `json:"-"`
	Source     *PaymentMethod `json:"-"`

	// GatewayError holds the processor message of the last failed vault attempt
	GatewayError string `json:"gateway_error,omitempty"`
}

// RecordGatewayError keeps the processor's failure message on the payment.
func (p *Payment) RecordGatewayError(message string) {
	p.GatewayError = message
}

// Order is the part of the host's order the gateway reads.
type Order struct {
	Number      string   `json:"number"`
	Email       string   `json:"email"`
	BillAddress *Address `json:"bill_address"`
}

// Address is a postal billing address.
type Address struct {
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
	Address1  string   `json:"address1"`
	Address2  string   `json:"address2"`
	Company   string   `json:"company"`
	City      string   `json:"city"`
	State     *State   `json:"state"`
	StateName string   `json:"state_name"` // free-text state for countries without a state list
	Country   *Country `json:"country"`
	Zipcode   string   `json:"zipcode"`
}

// State is a country subdivision.
type State struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
}

// Country carries the ISO codes of an address country.
type Country struct {
	ISO  string `json:"iso"`
	ISO3 string `json:"iso3"`
}

// RegionName returns the state's name, falling back to the free-text state name.
func (a *Address) RegionName() string {
	if a.State != nil {
		return a.State.Name
	}
	return a.StateName
}

// CountryISO3 returns the alpha-3 country code, or "" when unknown.
func (a *Address) CountryISO3() string {
	if a.Country == nil {
		return ""
	}
	return a.Country.ISO3
}
