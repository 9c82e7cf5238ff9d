// Package submitter hands claimed batches to the external transaction builder.
package submitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/pkg/signature"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BatchPayload is the JSON body posted for one source batch.
type BatchPayload struct {
	SourceID uuid.UUID      `json:"source_id"`
	Network  domain.Network `json:"network"`
	Claims   []ClaimPayload `json:"claims"`
}

// ClaimPayload is one claimed (request, wallet) pair. The builder echoes LockID
// back on every release of the wallet.
type ClaimPayload struct {
	RequestKind domain.WorkloadKind `json:"request_kind"`
	RequestID   uuid.UUID           `json:"request_id"`
	WalletID    uuid.UUID           `json:"wallet_id"`
	WalletRole  domain.WalletRole   `json:"wallet_role"`
	LockID      uuid.UUID           `json:"lock_id"`
}

// NewBatchPayload flattens a source batch for the wire.
func NewBatchPayload(batch domain.SourceBatch) BatchPayload {
	p := BatchPayload{
		SourceID: batch.Source.ID,
		Network:  batch.Source.Network,
		Claims:   make([]ClaimPayload, 0, len(batch.Claims)),
	}
	for _, c := range batch.Claims {
		p.Claims = append(p.Claims, ClaimPayload{
			RequestKind: c.Request.Kind(),
			RequestID:   c.Request.RequestID(),
			WalletID:    c.Wallet.ID,
			WalletRole:  c.Wallet.Role,
			LockID:      c.LockID,
		})
	}
	return p
}

// Options configures an HTTPSubmitter.
type Options struct {
	URL      string
	Secret   string
	Attempts int
	Backoff  time.Duration
}

// HTTPSubmitter implements ports.TransactionSubmitter by posting signed batches to an
// external builder. A 2xx response means the builder accepted the claims and will
// release each wallet itself.
type HTTPSubmitter struct {
	opts   Options
	path   string
	client HTTPClient
	log    zerolog.Logger
}

// NewHTTPSubmitter creates a new HTTPSubmitter.
func NewHTTPSubmitter(opts Options, client HTTPClient, log zerolog.Logger) (*HTTPSubmitter, error) {
	u, err := url.Parse(opts.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("submitter: invalid url %q", opts.URL)
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if client == nil {
		client = http.DefaultClient
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return &HTTPSubmitter{opts: opts, path: path, client: client, log: log}, nil
}

// Submit delivers batch, retrying transport failures and 5xx responses.
func (s *HTTPSubmitter) Submit(ctx context.Context, batch domain.SourceBatch) error {
	body, err := json.Marshal(NewBatchPayload(batch))
	if err != nil {
		return fmt.Errorf("submitter: marshal batch: %w", err)
	}
	sourceID := batch.Source.ID.String()

	var lastErr error
	for attempt := 0; attempt < s.opts.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("submitter: %w (last error: %v)", ctx.Err(), lastErr)
			case <-time.After(s.opts.Backoff):
			}
		}

		retry, err := s.deliver(ctx, body)
		if err == nil {
			s.log.Info().
				Str("source_id", sourceID).
				Int("claims", len(batch.Claims)).
				Int("attempt", attempt+1).
				Msg("batch delivered")
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
		s.log.Warn().Err(err).Str("source_id", sourceID).Int("attempt", attempt+1).Msg("batch delivery failed")
	}

	s.log.Error().Err(lastErr).Str("source_id", sourceID).Msg("batch delivery abandoned")
	return lastErr
}

// deliver posts body once. The bool reports whether a retry may succeed.
func (s *HTTPSubmitter) deliver(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.URL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("submitter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	signature.Attach(req.Header, s.opts.Secret, http.MethodPost, s.path, body, time.Now(), uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("submitter: post batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("submitter: builder returned %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("submitter: builder rejected batch with %d", resp.StatusCode)
	}
}
