package measurement

import (
	"net/url"
	"strconv"
	"strings"
)

// Field is one wire key and its value. Valid is false for a null field.
type Field struct {
	Key   string
	Value string
	Valid bool
}

// Hit is an ordered mapping of wire key to value.
type Hit struct {
	fields []Field
}

// Property identifies the analytics property hits are attributed to.
type Property struct {
	TrackingID string
}

// newHit starts a hit with the common fields every hit carries.
func newHit(p Property, clientID string, t HitType, capacity int) *Hit {
	h := &Hit{fields: make([]Field, 0, 4+capacity)}
	h.set(KeyVersion, ProtocolVersion)
	h.set(KeyTrackingID, p.TrackingID)
	h.set(KeyClientID, clientID)
	h.set(KeyHitType, string(t))
	return h
}

func (h *Hit) set(key, value string) {
	h.fields = append(h.fields, Field{Key: key, Value: value, Valid: true})
}

func (h *Hit) null(key string) {
	h.fields = append(h.fields, Field{Key: key})
}

// setOptional appends key as null when value is empty.
func (h *Hit) setOptional(key, value string) {
	if value == "" {
		h.null(key)
		return
	}
	h.set(key, value)
}

// Fields returns a copy of the hit's fields in wire order.
func (h Hit) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// Len returns the number of fields, nulls included.
func (h Hit) Len() int {
	return len(h.fields)
}

// Get returns the field stored under key.
func (h Hit) Get(key string) (Field, bool) {
	for _, f := range h.fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the value under key and whether it is present and non-null.
func (h Hit) Value(key string) (string, bool) {
	f, ok := h.Get(key)
	if !ok || !f.Valid {
		return "", false
	}
	return f.Value, true
}

// Type returns the t field.
func (h Hit) Type() HitType {
	v, _ := h.Value(KeyHitType)
	return HitType(v)
}

// Action returns the pa field, empty for plain events and pageviews.
func (h Hit) Action() ProductAction {
	v, _ := h.Value(transactionKeys.ProductAction)
	return ProductAction(v)
}

// Kind names the hit for logs and metrics: pageview, event, purchase or refund.
func (h Hit) Kind() string {
	if a := h.Action(); a != "" {
		return string(a)
	}
	return string(h.Type())
}

// Encode renders the hit as one form-encoded line. Null fields are skipped.
func (h Hit) Encode() string {
	var b strings.Builder
	for _, f := range h.fields {
		if !f.Valid {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// EncodeBatch renders hits as a batch body, one line per hit, in order.
func EncodeBatch(hits []Hit) []byte {
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(h.Encode())
	}
	return []byte(b.String())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
