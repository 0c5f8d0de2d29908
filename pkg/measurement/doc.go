// Package measurement builds and encodes Measurement Protocol hits.
//
// A [Hit] is an ordered list of wire fields. The constructors in this
// package ([NewEvent], [NewPageview], [NewPurchase], [NewRefund]) always
// emit the common fields v, tid, cid and t first, followed by the fields of
// the hit kind in a fixed order taken from the key tables in keys.go.
//
// # Encoding
//
// Each hit encodes to exactly one line of ampersand-joined key=value pairs,
// with values form-encoded (url.QueryEscape). Null fields are omitted from
// the line; a valid empty string is written as "key=". A batch is the lines
// of its hits joined by "\n".
//
//	h := measurement.NewEvent(p, "c1", "video", "play", measurement.WithLabel("intro"))
//	h.Encode() // v=1&tid=UA-1&cid=c1&t=event&ec=video&ea=play&el=intro
//
// # Products
//
// Purchases and refunds take ordered product slices. Callers holding the
// parallel-array form (ids, names, categories, ...) can zip them with
// [ProductColumns.Products] and [RefundColumns.Items], which reject columns
// longer than the id column.
package measurement
