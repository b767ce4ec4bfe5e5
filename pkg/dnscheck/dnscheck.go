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

// Package dnscheck validates DNS record existence for orchestration
// workflows. Record presence and absence are both successful outcomes,
// communicated in the result, so callers can branch on the answer rather
// than on exit codes.
package dnscheck

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// Result is the outcome of one lookup.
type Result struct {
	Hostname  string   `json:"hostname"`
	Exists    bool     `json:"exists"`
	Addresses []string `json:"addresses,omitempty"`
}

// Checker resolves hostnames against the system resolver.
type Checker struct {
	resolver *net.Resolver
	timeout  time.Duration
	logger   zerolog.Logger
}

// New builds a checker. A zero timeout gets the default.
func New(timeout time.Duration, logger zerolog.Logger) *Checker {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Checker{
		resolver: net.DefaultResolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// Check resolves the hostname. A failed resolution reports Exists=false;
// it is a lookup answer, not an error condition.
func (c *Checker) Check(ctx context.Context, hostname string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().Str("hostname", hostname).Msg("Resolving hostname")

	addrs, err := c.resolver.LookupHost(ctx, hostname)
	if err != nil || len(addrs) == 0 {
		if err != nil {
			c.logger.Debug().Err(err).Str("hostname", hostname).Msg("Resolution failed")
		}

		return Result{Hostname: hostname, Exists: false}
	}

	return Result{Hostname: hostname, Exists: true, Addresses: addrs}
}
