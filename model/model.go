package model

// Location is a static payment destination. LogoURL is optional.
type Location struct {
	ID      string  `json:"id" mapstructure:"id"`
	Name    string  `json:"name" mapstructure:"name"`
	Price   float64 `json:"price" mapstructure:"price"`
	LogoURL string  `json:"logoUrl,omitempty" mapstructure:"logo_url"`
}

// PaymentRequest is the body sent to the payment API.
type PaymentRequest struct {
	UUID     string  `json:"uuid"`
	Location string  `json:"location"`
	Amount   float64 `json:"amount"`
}

// ErrorResponse is the optional body returned by the payment API on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

type PayRequest struct {
	Amount string `json:"amount" form:"amount"`
}

type PayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
