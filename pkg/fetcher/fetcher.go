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

// Package fetcher defines the contract between the report normalizer and
// the per-vendor fetch adapters. The normalizer never talks to a device:
// it consumes the raw records an adapter returns and the tagged errors an
// adapter classifies at this boundary.
package fetcher

import (
	"context"
	"errors"

	"github.com/netscope/netreport/pkg/models"
)

// Failure kinds. Adapters classify transport and device conditions into
// exactly one of these so callers branch on errors.Is instead of matching
// error text.
var (
	// ErrFetchFailed marks a failed retrieval: unreachable device,
	// timeout, malformed response. Fatal for the invocation.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrAuthFailed marks rejected credentials. Fatal for the invocation.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrSubsystemInactive marks a device that answered but reports the
	// queried subsystem (e.g. BGP, an OSPF instance) as not configured.
	// Not fatal: callers degrade to a valid empty report.
	ErrSubsystemInactive = errors.New("subsystem not active")
)

// Query carries the per-invocation restriction options an adapter may push
// down to the device (a specific neighbor, a routing instance, an area).
type Query struct {
	SpecificID string
	Instance   string
	Area       string
}

// Client is the narrow fetch contract a vendor adapter implements.
// Each method may return an error wrapping one of the failure kinds above.
type Client interface {
	// DeviceIdentity fetches the raw record the device identity block is
	// resolved from. Key names vary by vendor; the normalizer maps them
	// onto the four identity slots.
	DeviceIdentity(ctx context.Context) (models.RawRecord, error)

	// Items fetches the primary per-identifier collection, in the
	// device's collection order.
	Items(ctx context.Context, q Query) (*models.Table, error)

	// SideTable fetches a named auxiliary collection keyed by the same
	// identifiers ("descriptions", "rates", "errors", ...). Adapters
	// return an empty table for side tables they do not serve.
	SideTable(ctx context.Context, name string, q Query) (*models.Table, error)
}
