// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// defaultHTTPClient is the package-level HTTP client used by server-facing
// commands. Overridden in tests via httptest.
var defaultHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

// vaultClient provides HTTP access to a running MediaVault server.
type vaultClient struct {
	baseURL string
	http    *http.Client
}

// newVaultClient creates a client targeting the given host:port address.
func newVaultClient(addr string) *vaultClient {
	return &vaultClient{
		baseURL: "http://" + addr,
		http:    defaultHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
func (c *vaultClient) getJSON(path string, dest any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		if isDialError(err) {
			return mverr.New(mverr.CodeCLIServerNotRunning, "server is not running (connection refused)")
		}
		return mverr.Wrap(err, mverr.CodeCLIRequestFailure, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return mverr.Errorf(mverr.CodeCLIRequestFailure, "server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return mverr.Wrap(err, mverr.CodeCLIRequestFailure, "invalid response")
	}
	return nil
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
