package models

// PaymentLink is the ephemeral result of the payment-link orchestrator.
type PaymentLink struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
	Status    string `json:"status"`
}

// Folio is the subset of an Apaleo folio the orchestrator inspects.
type Folio struct {
	ID          string          `json:"id"`
	IsMainFolio bool            `json:"isMainFolio"`
	Status      string          `json:"status"`
	Balance     *MonetaryAmount `json:"balance,omitempty"`
}

// FolioListResponse is the envelope of GET /finance/v1/folios.
type FolioListResponse struct {
	Folios []Folio `json:"folios"`
}

// FolioPaymentPayload is the body of POST /finance/v1/folios/{id}/payments/by-link.
type FolioPaymentPayload struct {
	Amount      MonetaryAmount `json:"amount"`
	ExpiresAt   string         `json:"expiresAt"`
	CountryCode string         `json:"countryCode"`
	Description string         `json:"description"`
	PayerEmail  string         `json:"payerEmail"`
}

// FolioPayment is a payment posted against a folio. Link payments carry the
// guest-facing URL once the PMS has materialized it.
type FolioPayment struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// FolioPaymentList is the envelope of GET /finance/v1/folios/{id}/payments.
type FolioPaymentList struct {
	Payments []FolioPayment `json:"payments"`
}

// PaymentAccountTarget selects the reservation or booking a payment account belongs to.
type PaymentAccountTarget struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// PaymentAccountPayload is the body of POST /booking/v1/payment-accounts/by-link.
type PaymentAccountPayload struct {
	Target      PaymentAccountTarget `json:"target"`
	PropertyID  string               `json:"propertyId"`
	ExpiresAt   string               `json:"expiresAt"`
	CountryCode string               `json:"countryCode"`
	Description string               `json:"description"`
	PayerEmail  string               `json:"payerEmail"`
}

// PaymentAccount is the by-link payment account as returned by Apaleo.
type PaymentAccount struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	URL         string `json:"url"`
	PaymentLink *struct {
		URL       string `json:"url"`
		ExpiresAt string `json:"expiresAt"`
	} `json:"paymentLink"`
}

// LinkURL returns the guest-facing URL of the account's payment link, if present.
func (a PaymentAccount) LinkURL() string {
	if a.PaymentLink != nil && a.PaymentLink.URL != "" {
		return a.PaymentLink.URL
	}
	return a.URL
}

// PaymentAccountList is the envelope of GET /booking/v1/payment-accounts.
type PaymentAccountList struct {
	PaymentAccounts []PaymentAccount `json:"paymentAccounts"`
}
