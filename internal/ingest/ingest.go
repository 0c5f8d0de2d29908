// Package ingest decodes JSON-lines hit records into tracker calls.
//
// One record per line:
//
//	{"type":"pageview","cid":"555","host":"example.com","page":"/","title":"Home"}
//	{"type":"event","cid":"555","category":"video","action":"play","label":"intro","value":3}
//	{"type":"purchase","cid":"555","transaction":{"id":"T1","revenue":25},"products":[{"id":"SKU-1","name":"Shirt"}]}
//	{"type":"refund","cid":"555","transaction_id":"T1","products":[{"id":"SKU-1","quantity":1}]}
//
// A record without cid gets a random UUID client id.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/bft-labs/gaship/pkg/measurement"
)

// maxLineBytes bounds a single record.
const maxLineBytes = 1 << 20

// ErrUnknownType is returned for a record whose type is not a known hit kind.
var ErrUnknownType = errors.New("ingest: unknown record type")

// Tracker is the subset of *gaship.Tracker records are replayed into.
type Tracker interface {
	Event(clientID, category, action string, opts ...measurement.EventOption)
	Pageview(clientID, host, page, title string)
	Purchase(clientID string, tx measurement.Transaction, products []measurement.Product)
	Refund(clientID, transactionID string, items []measurement.RefundItem)
}

// Record is one decoded line.
type Record struct {
	Type     string `json:"type"`
	ClientID string `json:"cid"`

	Category string   `json:"category"`
	Action   string   `json:"action"`
	Label    *string  `json:"label"`
	Value    *float64 `json:"value"`

	Host  string `json:"host"`
	Page  string `json:"page"`
	Title string `json:"title"`

	Transaction   *Transaction `json:"transaction"`
	TransactionID string       `json:"transaction_id"`
	Products      []Product    `json:"products"`
}

// Transaction is the purchase order of a record.
type Transaction struct {
	ID          string  `json:"id"`
	Affiliation string  `json:"affiliation"`
	Revenue     float64 `json:"revenue"`
	Tax         float64 `json:"tax"`
	Shipping    float64 `json:"shipping"`
	Coupon      string  `json:"coupon"`
}

// Product is a purchased or refunded product of a record.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Variant  string `json:"variant"`
	Position int    `json:"position"`
	Quantity int    `json:"quantity"`
}

// newClientID is swapped in tests.
var newClientID = uuid.NewString

// Read replays every record of r into t and returns how many were applied.
// Blank lines are skipped. Decoding stops at the first bad line; records
// before it have already been applied.
func Read(r io.Reader, t Tracker) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	n, line := 0, 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := Apply(rec, t); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read records: %w", err)
	}
	return n, nil
}

// Apply replays a single record into t.
func Apply(rec Record, t Tracker) error {
	cid := rec.ClientID
	if cid == "" {
		cid = newClientID()
	}

	switch rec.Type {
	case "event":
		var opts []measurement.EventOption
		if rec.Label != nil {
			opts = append(opts, measurement.WithLabel(*rec.Label))
		}
		if rec.Value != nil {
			opts = append(opts, measurement.WithValue(*rec.Value))
		}
		t.Event(cid, rec.Category, rec.Action, opts...)

	case "pageview":
		t.Pageview(cid, rec.Host, rec.Page, rec.Title)

	case "purchase":
		var tx measurement.Transaction
		if rec.Transaction != nil {
			tx = measurement.Transaction(*rec.Transaction)
		}
		products := make([]measurement.Product, len(rec.Products))
		for i, p := range rec.Products {
			products[i] = measurement.Product{
				ID:       p.ID,
				Name:     p.Name,
				Category: p.Category,
				Brand:    p.Brand,
				Variant:  p.Variant,
				Position: p.Position,
			}
		}
		t.Purchase(cid, tx, products)

	case "refund":
		txID := rec.TransactionID
		if txID == "" && rec.Transaction != nil {
			txID = rec.Transaction.ID
		}
		items := make([]measurement.RefundItem, len(rec.Products))
		for i, p := range rec.Products {
			items[i] = measurement.RefundItem{ID: p.ID, Quantity: p.Quantity}
		}
		t.Refund(cid, txID, items)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}
	return nil
}
