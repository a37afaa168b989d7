package models

import "github.com/google/uuid"

// Eligibility reasons for a sample request. A product qualifies only while it
// has never been ordered as normal stock and never had a stock movement.
const (
	ReasonEligible           = "ELIGIBLE"
	ReasonHasPurchaseHistory = "HAS_PURCHASE_HISTORY"
	ReasonHasStockHistory    = "HAS_STOCK_HISTORY"
	ReasonBothHistories      = "BOTH_HISTORIES"
)

// Sample request error codes
const (
	SampleErrProductNotFound = "PRODUCT_NOT_FOUND"
	SampleErrMissingSupplier = "MISSING_SUPPLIER"
	SampleErrInvalidCost     = "INVALID_COST"
	SampleErrNotEligible     = "NOT_ELIGIBLE"
	SampleErrUnauthenticated = "UNAUTHENTICATED"
	SampleErrStore           = "STORE_ERROR"
)

// EligibilityVerdict is the structured result of the eligibility check. It is
// always returned fully populated, including when a remote fetch failed; the
// raw counts are carried for diagnostics.
type EligibilityVerdict struct {
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason"`
	Message       string `json:"message"`
	PurchaseCount int64  `json:"purchase_count"`
	MovementCount int64  `json:"movement_count"`
}

// SampleRequestResult is the uniform outcome of a sample consolidation. All
// failures are reported through this shape rather than raised to the caller.
type SampleRequestResult struct {
	Success      bool      `json:"success"`
	OrderID      uuid.UUID `json:"order_id,omitempty"`
	OrderCreated bool      `json:"order_created"`
	ErrorCode    string    `json:"error_code,omitempty"`
	Message      string    `json:"message,omitempty"`
}
