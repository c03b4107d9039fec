// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// defaultHTTPClient is the package-level HTTP client used by gateway
// commands. Overridden in tests via httptest.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// gatewayClient provides HTTP access to a running crewgate gateway.
type gatewayClient struct {
	baseURL string
	http    *http.Client
}

func newGatewayClient(addr string) *gatewayClient {
	return &gatewayClient{
		baseURL: "http://" + addr,
		http:    defaultHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
func (c *gatewayClient) getJSON(path string, dest any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return wrapTransportError(err)
	}
	return decodeResponse(resp, dest)
}

// postJSON performs a POST with an empty body and decodes the JSON response
// into dest.
func (c *gatewayClient) postJSON(path string, dest any) error {
	resp, err := c.http.Post(c.baseURL+path, "application/json", strings.NewReader("{}"))
	if err != nil {
		return wrapTransportError(err)
	}
	return decodeResponse(resp, dest)
}

func decodeResponse(resp *http.Response, dest any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return cgerr.Errorf(cgerr.CodeCLIResponseInvalid,
			"gateway returned status %d: %s", resp.StatusCode, string(body))
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return cgerr.Wrap(err, cgerr.CodeCLIResponseInvalid, "invalid response")
	}
	return nil
}

func wrapTransportError(err error) error {
	if isDialError(err) {
		return cgerr.Wrap(err, cgerr.CodeCLIGatewayNotRunning, "gateway is not running")
	}
	return cgerr.Wrap(err, cgerr.CodeCLIResponseInvalid, "request failed")
}

func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
