package ingest

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bft-labs/gaship/pkg/measurement"
)

// recorder builds the hits the tracker would buffer.
type recorder struct {
	hits []measurement.Hit
}

var prop = measurement.Property{TrackingID: "UA-1"}

func (r *recorder) Event(cid, category, action string, opts ...measurement.EventOption) {
	r.hits = append(r.hits, measurement.NewEvent(prop, cid, category, action, opts...))
}

func (r *recorder) Pageview(cid, host, page, title string) {
	r.hits = append(r.hits, measurement.NewPageview(prop, cid, host, page, title))
}

func (r *recorder) Purchase(cid string, tx measurement.Transaction, products []measurement.Product) {
	r.hits = append(r.hits, measurement.NewPurchase(prop, cid, tx, products))
}

func (r *recorder) Refund(cid, txID string, items []measurement.RefundItem) {
	r.hits = append(r.hits, measurement.NewRefund(prop, cid, txID, items))
}

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"pageview","cid":"555","host":"example.com","page":"/","title":"Home"}`,
		``,
		`{"type":"event","cid":"555","category":"video","action":"play","label":"intro","value":3}`,
		`{"type":"purchase","cid":"555","transaction":{"id":"T1","revenue":25.5},"products":[{"id":"SKU-1","name":"Shirt","position":1},{"id":"SKU-2"}]}`,
		`{"type":"refund","cid":"555","transaction_id":"T1","products":[{"id":"SKU-1","quantity":2}]}`,
	}, "\n")

	rec := &recorder{}
	n, err := Read(strings.NewReader(input), rec)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("Read() = %d records, want 4", n)
	}

	want := []string{
		"v=1&tid=UA-1&cid=555&t=pageview&dh=example.com&dp=%2F&dt=Home",
		"v=1&tid=UA-1&cid=555&t=event&ec=video&ea=play&el=intro&ev=3",
		"v=1&tid=UA-1&cid=555&t=event&ti=T1&tr=25.5&tt=0&ts=0&pa=purchase&pr1id=SKU-1&pr1nm=Shirt&pr1ps=1&pr2id=SKU-2",
		"v=1&tid=UA-1&cid=555&t=event&ti=T1&pa=refund&pr1id=SKU-1&pr1qt=2",
	}
	var got []string
	for _, h := range rec.hits {
		got = append(got, h.Encode())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encoded hits:\n got %q\nwant %q", got, want)
	}
}

func TestRead_EventWithoutOptionals(t *testing.T) {
	rec := &recorder{}
	if _, err := Read(strings.NewReader(`{"type":"event","cid":"c1","category":"cat","action":"act"}`), rec); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := rec.hits[0].Encode(), "v=1&tid=UA-1&cid=c1&t=event&ec=cat&ea=act"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRead_GeneratesClientID(t *testing.T) {
	old := newClientID
	newClientID = func() string { return "generated" }
	defer func() { newClientID = old }()

	rec := &recorder{}
	if _, err := Read(strings.NewReader(`{"type":"pageview","host":"h","page":"/"}`), rec); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cid, _ := rec.hits[0].Value(measurement.KeyClientID); cid != "generated" {
		t.Errorf("cid = %q, want generated", cid)
	}
}

func TestRead_DefaultClientIDIsUUID(t *testing.T) {
	rec := &recorder{}
	if _, err := Read(strings.NewReader(`{"type":"pageview"}`), rec); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	cid, _ := rec.hits[0].Value(measurement.KeyClientID)
	if len(cid) != 36 || strings.Count(cid, "-") != 4 {
		t.Errorf("cid = %q, want a UUID", cid)
	}
}

func TestRead_RefundFallsBackToTransactionObject(t *testing.T) {
	rec := &recorder{}
	if _, err := Read(strings.NewReader(`{"type":"refund","cid":"c","transaction":{"id":"T7"}}`), rec); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ti, _ := rec.hits[0].Value("ti"); ti != "T7" {
		t.Errorf("ti = %q, want T7", ti)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		applied int
		wantIs  error
		wantMsg string
	}{
		{
			name:    "malformed json",
			input:   "{\"type\":\"pageview\",\"cid\":\"a\"}\n{not json",
			applied: 1,
			wantMsg: "line 2",
		},
		{
			name:    "unknown type",
			input:   `{"type":"screenview","cid":"a"}`,
			applied: 0,
			wantIs:  ErrUnknownType,
			wantMsg: "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			n, err := Read(strings.NewReader(tt.input), rec)
			if err == nil {
				t.Fatal("Read() error = nil, want error")
			}
			if n != tt.applied || len(rec.hits) != tt.applied {
				t.Errorf("applied = %d (hits %d), want %d", n, len(rec.hits), tt.applied)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}
