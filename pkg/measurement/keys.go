package measurement

import "strconv"

// ProtocolVersion is the Measurement Protocol version sent as v.
const ProtocolVersion = "1"

// Common wire keys present in every hit.
const (
	KeyVersion    = "v"
	KeyTrackingID = "tid"
	KeyClientID   = "cid"
	KeyHitType    = "t"
)

// HitType is the value of the t field.
type HitType string

const (
	HitEvent    HitType = "event"
	HitPageview HitType = "pageview"
)

// ProductAction is the value of the pa field on enhanced ecommerce hits.
type ProductAction string

const (
	ActionPurchase ProductAction = "purchase"
	ActionRefund   ProductAction = "refund"
)

// eventKeys maps event parameters to wire keys, in wire order.
var eventKeys = struct {
	Category, Action, Label, Value string
}{"ec", "ea", "el", "ev"}

var pageviewKeys = struct {
	Host, Page, Title string
}{"dh", "dp", "dt"}

var transactionKeys = struct {
	ID, Affiliation, Revenue, Tax, Shipping, Coupon, ProductAction string
}{"ti", "ta", "tr", "tt", "ts", "tcc", "pa"}

// productSuffixes are appended to pr{i} to form product keys.
var productSuffixes = struct {
	ID, Name, Category, Brand, Variant, Position, Quantity string
}{"id", "nm", "ca", "br", "va", "ps", "qt"}

// productKey returns the wire key for the i-th product (1-indexed).
func productKey(i int, suffix string) string {
	return "pr" + strconv.Itoa(i) + suffix
}
