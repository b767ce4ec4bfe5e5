/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package eapi fetches interface telemetry from Arista EOS via the eAPI
// JSON-RPC endpoint (/command-api). It is a pure fetch adapter: it runs
// show commands, decodes the JSON results, and classifies failures into
// the fetcher error kinds. All field-level interpretation happens in the
// report pipeline.
package eapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
	"github.com/netscope/netreport/pkg/schemas"
)

const defaultTimeout = 30 * time.Second

// Config describes one eAPI endpoint.
type Config struct {
	Host      string        `json:"host"`
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	Transport string        `json:"transport"` // http or https
	Port      int           `json:"port"`
	Timeout   time.Duration `json:"timeout"`

	// Insecure disables TLS certificate verification for this client
	// only. Required for switches with self-signed certificates, but it
	// removes protection against man-in-the-middle attacks; the client
	// logs a warning whenever it is enabled.
	Insecure bool `json:"insecure"`
}

// Client speaks eAPI JSON-RPC and implements fetcher.Client.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
	nextID atomic.Int64
}

// New builds an eAPI client. TLS verification stays on unless the config
// explicitly opts out.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Transport == "" {
		cfg.Transport = "https"
	}

	if cfg.Port == 0 {
		if cfg.Transport == "http" {
			cfg.Port = 80
		} else {
			cfg.Port = 443
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.Insecure {
		logger.Warn().
			Str("host", cfg.Host).
			Msg("TLS certificate verification DISABLED for this eAPI connection; traffic can be intercepted")

		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit operator opt-in
		}
	}

	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      string    `json:"id"`
}

type rpcParams struct {
	Version int      `json:"version"`
	Cmds    []string `json:"cmds"`
	Format  string   `json:"format"`
}

type rpcResponse struct {
	Result []map[string]any `json:"result"`
	Error  *rpcError        `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunCmd executes one show command and returns its decoded result object.
func (c *Client) RunCmd(ctx context.Context, cmd string) (models.RawRecord, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "runCmds",
		Params:  rpcParams{Version: 1, Cmds: []string{cmd}, Format: "json"},
		ID:      strconv.FormatInt(c.nextID.Add(1), 10),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding eAPI request: %w", fetcher.ErrFetchFailed, err)
	}

	url := fmt.Sprintf("%s://%s:%d/command-api", c.cfg.Transport, c.cfg.Host, c.cfg.Port)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: building eAPI request: %w", fetcher.ErrFetchFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	c.logger.Debug().Str("cmd", cmd).Str("url", url).Msg("Executing eAPI command")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetcher.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: eAPI returned HTTP %d", fetcher.ErrAuthFailed, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: eAPI returned HTTP %d", fetcher.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading eAPI response: %w", fetcher.ErrFetchFailed, err)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding eAPI response: %w", fetcher.ErrFetchFailed, err)
	}

	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: eAPI error %d: %s", fetcher.ErrFetchFailed, decoded.Error.Code, decoded.Error.Message)
	}

	if len(decoded.Result) == 0 {
		return nil, fmt.Errorf("%w: eAPI returned no result for %q", fetcher.ErrFetchFailed, cmd)
	}

	return models.RawRecord(decoded.Result[0]), nil
}

// DeviceIdentity fetches "show version" for the identity block.
func (c *Client) DeviceIdentity(ctx context.Context) (models.RawRecord, error) {
	return c.RunCmd(ctx, "show version")
}

// Items fetches the interface status collection, keyed by interface name.
func (c *Client) Items(ctx context.Context, _ fetcher.Query) (*models.Table, error) {
	rec, err := c.RunCmd(ctx, "show interfaces status")
	if err != nil {
		return nil, err
	}

	return report.TableFromRecord(rec["interfaceStatuses"])
}

// sideCommands maps side-table names onto the show command and the result
// key the collection lives under.
var sideCommands = map[string]struct {
	cmd string
	key string
}{
	schemas.TableDescriptions: {cmd: "show interfaces description", key: "interfaceDescriptions"},
	schemas.TableRates:        {cmd: "show interfaces counters rates", key: "interfaces"},
	schemas.TableErrors:       {cmd: "show interfaces counters errors", key: "interfaceCounters"},
}

// SideTable fetches one auxiliary interface collection. An unexpected
// shape under the result key degrades to an empty table; only transport
// failures are errors.
func (c *Client) SideTable(ctx context.Context, name string, _ fetcher.Query) (*models.Table, error) {
	side, ok := sideCommands[name]
	if !ok {
		return models.NewTable(), nil
	}

	rec, err := c.RunCmd(ctx, side.cmd)
	if err != nil {
		return nil, err
	}

	table, err := report.TableFromRecord(rec[side.key])
	if err != nil {
		c.logger.Debug().Str("table", name).Msg("Unexpected side-table shape, treating as empty")

		return models.NewTable(), nil
	}

	return table, nil
}
