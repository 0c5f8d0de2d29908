// Package sender posts encoded hit batches to a collection endpoint.
//
// [HTTPSender] issues one POST to {baseURI}batch per call. Any transport
// error or non-2xx status is returned as an error; the response body is
// discarded because the endpoint returns nothing usable.
//
//	s := sender.NewHTTPSender(http.DefaultClient, sender.DefaultBaseURI, "", logger)
//	if err := s.Send(ctx, body, n); err != nil {
//	    // chunk failed
//	}
//
// Implement [Sender] to deliver batches elsewhere, e.g. in tests.
package sender
