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

// Package ciscossh fetches BGP session state from Cisco IOS-XE devices
// over SSH. This is a legacy text-scraping adapter: IOS-XE has no
// structured API on classic deployments, so show-command output is parsed
// with regular expressions whose grammar may drift across firmware
// versions. The scraping stays inside this package; the pipeline only
// sees typed records and tagged errors.
package ciscossh

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

const (
	defaultPort    = 22
	defaultTimeout = 10 * time.Second
)

// Config describes one SSH target.
type Config struct {
	Host     string        `json:"host"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Port     int           `json:"port"`
	Timeout  time.Duration `json:"timeout"`
}

// Client runs show commands over SSH and implements fetcher.Client.
type Client struct {
	cfg    Config
	ssh    *ssh.Client
	logger zerolog.Logger
}

// Dial connects and authenticates. Credential rejection is classified as
// ErrAuthFailed, everything else as ErrFetchFailed.
func Dial(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // device host keys are not pre-distributed
		Timeout:         cfg.Timeout,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	logger.Debug().Str("addr", addr).Msg("Dialing IOS-XE device")

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") ||
			strings.Contains(err.Error(), "no supported methods remain") {
			return nil, fmt.Errorf("%w: %w", fetcher.ErrAuthFailed, err)
		}

		return nil, fmt.Errorf("%w: connecting to %s: %w", fetcher.ErrFetchFailed, addr, err)
	}

	client := &Client{cfg: cfg, ssh: conn, logger: logger}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	return client, nil
}

// Close tears down the SSH connection.
func (c *Client) Close() error {
	return c.ssh.Close()
}

// run executes one exec-channel command, like a one-shot remote shell.
func (c *Client) run(ctx context.Context, cmd string) (string, error) {
	session, err := c.ssh.NewSession()
	if err != nil {
		return "", fmt.Errorf("%w: opening session: %w", fetcher.ErrFetchFailed, err)
	}
	defer session.Close()

	c.logger.Debug().Str("cmd", cmd).Msg("Executing command")

	type result struct {
		out []byte
		err error
	}

	done := make(chan result, 1)

	go func() {
		out, runErr := session.CombinedOutput(cmd)
		done <- result{out: out, err: runErr}
	}()

	select {
	case <-ctx.Done():
		_ = session.Close()
		return "", fmt.Errorf("%w: %q: %w", fetcher.ErrFetchFailed, cmd, ctx.Err())
	case res := <-done:
		// IOS returns a non-zero status for some valid show commands;
		// the output text decides, not the exit code.
		return string(res.out), nil
	}
}

// DeviceIdentity scrapes hostname, platform, model, and version.
// Each slot is independent: a failed extraction just leaves the key out
// and the identity resolution defaults it.
func (c *Client) DeviceIdentity(ctx context.Context) (models.RawRecord, error) {
	versionOut, err := c.run(ctx, "show version")
	if err != nil {
		return nil, err
	}

	rec := models.RawRecord{}

	if strings.Contains(versionOut, "IOS-XE") || strings.Contains(versionOut, "IOS XE") {
		rec["platform"] = "Cisco IOS-XE"
	} else {
		rec["platform"] = "Cisco IOS"
	}

	if m := versionRegex.FindStringSubmatch(versionOut); m != nil {
		rec["version"] = m[1]
	}

	if m := modelRegex.FindStringSubmatch(versionOut); m != nil {
		rec["model"] = m[1]
	}

	hostnameOut, err := c.run(ctx, "show running-config | include hostname")
	if err != nil {
		return nil, err
	}

	hostnameOut = strings.TrimSpace(hostnameOut)
	if strings.HasPrefix(hostnameOut, "hostname ") {
		rec["hostname"] = strings.TrimSpace(strings.TrimPrefix(hostnameOut, "hostname "))
	}

	return rec, nil
}

// BGPSummary scrapes the local AS number and router ID. A device that
// answers with the not-active marker gets the tagged inactive error so
// callers can degrade instead of failing.
func (c *Client) BGPSummary(ctx context.Context) (localAS, routerID string, err error) {
	out, err := c.run(ctx, "show ip bgp summary")
	if err != nil {
		return "", "", err
	}

	if isInactive(out) {
		return "", "", fmt.Errorf("%w: BGP is not configured on this device", fetcher.ErrSubsystemInactive)
	}

	localAS = models.UnknownValue
	routerID = models.UnknownValue

	if m := localASRegex.FindStringSubmatch(out); m != nil {
		localAS = m[1]
	}

	if m := routerIDRegex.FindStringSubmatch(out); m != nil {
		routerID = m[1]
	}

	return localAS, routerID, nil
}

// Items fetches and parses the neighbor detail blocks, in device order.
func (c *Client) Items(ctx context.Context, q fetcher.Query) (*models.Table, error) {
	cmd := "show ip bgp neighbors"
	if q.SpecificID != "" {
		cmd = cmd + " " + q.SpecificID
	}

	out, err := c.run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if isInactive(out) {
		return nil, fmt.Errorf("%w: BGP is not configured on this device", fetcher.ErrSubsystemInactive)
	}

	return ParseNeighbors(out), nil
}

// SideTable is unused for BGP: every neighbor attribute lives in the
// primary detail block.
func (c *Client) SideTable(_ context.Context, _ string, _ fetcher.Query) (*models.Table, error) {
	return models.NewTable(), nil
}
