package models

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HostedPaymentResult is returned to the browser once a hosted payment
// post-back has been verified.
type HostedPaymentResult struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	AuthCode      string `json:"auth_code,omitempty"`
	ResponseCode  string `json:"response_code"`
	Message       string `json:"message"`
}
