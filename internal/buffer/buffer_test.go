package buffer

import (
	"testing"

	"github.com/bft-labs/gaship/pkg/measurement"
)

func hit(cid string) measurement.Hit {
	return measurement.NewEvent(measurement.Property{TrackingID: "UA-1"}, cid, "c", "a")
}

func cids(hits []measurement.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i], _ = h.Value(measurement.KeyClientID)
	}
	return out
}

func TestBuffer_AppendPeekDrop(t *testing.T) {
	b := New()
	if !b.Empty() {
		t.Fatal("new buffer should be empty")
	}

	for _, c := range []string{"a", "b", "c", "d", "e"} {
		b.Append(hit(c))
	}
	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}

	got := cids(b.Peek(2))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Peek(2) = %v, want [a b]", got)
	}
	if b.Len() != 5 {
		t.Errorf("Peek must not remove hits, Len() = %d", b.Len())
	}

	b.Drop(2)
	got = cids(b.Peek(10))
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Errorf("after Drop(2) Peek = %v, want [c d e]", got)
	}

	b.Drop(10)
	if !b.Empty() {
		t.Errorf("Drop past end should empty the buffer, Len() = %d", b.Len())
	}
}

func TestBuffer_AppendAfterDrain(t *testing.T) {
	b := New()
	b.Append(hit("a"))
	b.Drop(1)
	b.Append(hit("b"))

	got := cids(b.Peek(1))
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("Peek(1) = %v, want [b]", got)
	}
}

func TestBuffer_Reset(t *testing.T) {
	b := New()
	b.Append(hit("a"))
	b.Append(hit("b"))
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", b.Len())
	}
	if len(b.Peek(5)) != 0 {
		t.Errorf("Peek after Reset should be empty")
	}
}
