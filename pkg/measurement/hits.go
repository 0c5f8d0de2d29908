package measurement

import "strconv"

// EventOption sets the optional label and value of an event hit.
type EventOption func(*eventOptions)

type eventOptions struct {
	label    string
	hasLabel bool
	value    float64
	hasValue bool
}

// WithLabel sets the event label (el).
func WithLabel(label string) EventOption {
	return func(o *eventOptions) {
		o.label = label
		o.hasLabel = true
	}
}

// WithValue sets the event value (ev).
func WithValue(value float64) EventOption {
	return func(o *eventOptions) {
		o.value = value
		o.hasValue = true
	}
}

// NewEvent builds an event hit. Label and value are null unless set.
func NewEvent(p Property, clientID, category, action string, opts ...EventOption) Hit {
	var o eventOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := newHit(p, clientID, HitEvent, 4)
	h.set(eventKeys.Category, category)
	h.set(eventKeys.Action, action)
	if o.hasLabel {
		h.set(eventKeys.Label, o.label)
	} else {
		h.null(eventKeys.Label)
	}
	if o.hasValue {
		h.set(eventKeys.Value, formatFloat(o.value))
	} else {
		h.null(eventKeys.Value)
	}
	return *h
}

// NewPageview builds a pageview hit. An empty title is sent as "dt=".
func NewPageview(p Property, clientID, host, page, title string) Hit {
	h := newHit(p, clientID, HitPageview, 3)
	h.set(pageviewKeys.Host, host)
	h.set(pageviewKeys.Page, page)
	h.set(pageviewKeys.Title, title)
	return *h
}

// Transaction describes the order of a purchase hit.
type Transaction struct {
	ID          string
	Affiliation string
	Revenue     float64
	Tax         float64
	Shipping    float64
	Coupon      string
}

// Product is one line of a purchase. Empty strings and a zero Position are
// sent as nulls; the product itself is always kept.
type Product struct {
	ID       string
	Name     string
	Category string
	Brand    string
	Variant  string
	Position int
}

// RefundItem is one refunded product. A non-positive Quantity is null.
type RefundItem struct {
	ID       string
	Quantity int
}

// NewPurchase builds an enhanced ecommerce purchase hit.
func NewPurchase(p Property, clientID string, tx Transaction, products []Product) Hit {
	h := newHit(p, clientID, HitEvent, 7+6*len(products))
	h.set(transactionKeys.ID, tx.ID)
	h.setOptional(transactionKeys.Affiliation, tx.Affiliation)
	h.set(transactionKeys.Revenue, formatFloat(tx.Revenue))
	h.set(transactionKeys.Tax, formatFloat(tx.Tax))
	h.set(transactionKeys.Shipping, formatFloat(tx.Shipping))
	h.setOptional(transactionKeys.Coupon, tx.Coupon)
	h.set(transactionKeys.ProductAction, string(ActionPurchase))

	for i, pr := range products {
		n := i + 1
		h.set(productKey(n, productSuffixes.ID), pr.ID)
		h.setOptional(productKey(n, productSuffixes.Name), pr.Name)
		h.setOptional(productKey(n, productSuffixes.Category), pr.Category)
		h.setOptional(productKey(n, productSuffixes.Brand), pr.Brand)
		h.setOptional(productKey(n, productSuffixes.Variant), pr.Variant)
		if pr.Position > 0 {
			h.set(productKey(n, productSuffixes.Position), strconv.Itoa(pr.Position))
		} else {
			h.null(productKey(n, productSuffixes.Position))
		}
	}
	return *h
}

// NewRefund builds an enhanced ecommerce refund hit.
func NewRefund(p Property, clientID, transactionID string, items []RefundItem) Hit {
	h := newHit(p, clientID, HitEvent, 2+2*len(items))
	h.set(transactionKeys.ID, transactionID)
	h.set(transactionKeys.ProductAction, string(ActionRefund))

	for i, it := range items {
		n := i + 1
		h.set(productKey(n, productSuffixes.ID), it.ID)
		if it.Quantity > 0 {
			h.set(productKey(n, productSuffixes.Quantity), strconv.Itoa(it.Quantity))
		} else {
			h.null(productKey(n, productSuffixes.Quantity))
		}
	}
	return *h
}
