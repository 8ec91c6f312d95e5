package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// backend performs JSON requests against the real backend.  Timeouts come
// from the injected http.Client (the server passes one with a 10s limit);
// a request also ends when the page request that triggered it ends.
type backend struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClients returns clients for the backend at baseURL.
func NewHTTPClients(baseURL string, hc *http.Client) Clients {
	if hc == nil {
		hc = http.DefaultClient
	}
	b := &backend{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
	return Clients{
		Classes:      &httpClasses{b},
		Reservations: &httpReservations{b},
		Payments:     &httpPayments{b},
		Instructors:  &httpInstructors{b},
	}
}

// call sends method to path (already escaped) with the optional query and
// JSON body and decodes a JSON answer into out (ignored when nil).
// Non-2xx answers become *Error; fallback is the user message used when the
// backend body carries none.
func (b *backend) call(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(raw, fallback)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts resultMsg or message from a JSON error body, falls
// back to a plain-text body and finally to fallback.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		ResultMsg string `json:"resultMsg"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.ResultMsg != "" {
			return body.ResultMsg
		}
		if body.Message != "" {
			return body.Message
		}
		return fallback
	}
	text := strings.TrimSpace(string(raw))
	if text == "" || strings.HasPrefix(text, "<") {
		return fallback
	}
	return text
}

func seg(s string) string { return url.PathEscape(s) }
