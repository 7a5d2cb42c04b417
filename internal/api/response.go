package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 10 << 20

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// decodeSuccess decodes a 2xx body into out. Single resources may arrive
// bare or wrapped as {"data": {...}}; the wrapper is removed when data is an
// object. List envelopes, whose data is an array, are decoded as-is.
func decodeSuccess(body []byte, out any) error {
	if out == nil {
		return nil
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	if inner, ok := unwrapData(body); ok {
		body = inner
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unwrapData(body []byte) (json.RawMessage, bool) {
	if body[0] != '{' {
		return nil, false
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	data, ok := envelope["data"]
	if !ok || len(envelope) != 1 {
		return nil, false
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	return data, true
}
