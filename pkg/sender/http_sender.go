package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bft-labs/gaship/pkg/log"
)

const (
	// DefaultBaseURI is the Measurement Protocol collection host.
	DefaultBaseURI = "https://www.google-analytics.com/"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "gaship/" + Version

	batchPath = "batch"
)

// HTTPSender implements Sender with a POST to {baseURI}batch.
type HTTPSender struct {
	client    HTTPClient
	url       string
	userAgent string
	logger    log.Logger
}

// NewHTTPSender creates a sender. An empty baseURI or userAgent selects the
// default; a baseURI without a trailing slash gets one.
func NewHTTPSender(client HTTPClient, baseURI, userAgent string, logger log.Logger) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPSender{
		client:    client,
		url:       NormalizeBaseURI(baseURI) + batchPath,
		userAgent: userAgent,
		logger:    logger,
	}
}

// NormalizeBaseURI applies the default and ensures a trailing slash.
func NormalizeBaseURI(baseURI string) string {
	if baseURI == "" {
		return DefaultBaseURI
	}
	if !strings.HasSuffix(baseURI, "/") {
		return baseURI + "/"
	}
	return baseURI
}

// URL returns the batch endpoint this sender posts to.
func (s *HTTPSender) URL() string {
	return s.url
}

// Send posts body as one batch request.
func (s *HTTPSender) Send(ctx context.Context, body []byte, hits int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	s.logger.Debug("batch sent",
		log.String("url", s.url),
		log.Int("hits", hits),
		log.Int("bytes", len(body)),
		log.Int("status", resp.StatusCode),
	)
	return nil
}
