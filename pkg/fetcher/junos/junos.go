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

// Package junos fetches OSPF neighbor state from Juniper JUNOS devices
// over NETCONF. JUNOS returns structured XML, so unlike the IOS-XE
// adapter there is no text scraping here: RPC replies decode straight
// into records.
package junos

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

const defaultPort = 830

// Config describes one NETCONF target.
type Config struct {
	Host     string        `json:"host"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Port     int           `json:"port"`
	Timeout  time.Duration `json:"timeout"`
}

// Client issues JUNOS RPCs and implements fetcher.Client.
type Client struct {
	nc     *netconfSession
	logger zerolog.Logger
}

// Dial opens the NETCONF session.
func Dial(_ context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	logger.Debug().Str("host", cfg.Host).Int("port", cfg.Port).Msg("Dialing JUNOS device")

	nc, err := dialNetconf(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{nc: nc, logger: logger}, nil
}

// Close tears down the NETCONF session.
func (c *Client) Close() error {
	return c.nc.close()
}

type rpcReply struct {
	XMLName  xml.Name                 `xml:"rpc-reply"`
	Errors   []rpcError               `xml:"rpc-error"`
	Software *softwareInformation     `xml:"software-information"`
	OSPF     *ospfNeighborInformation `xml:"ospf-neighbor-information"`
}

type rpcError struct {
	Severity string `xml:"error-severity"`
	Message  string `xml:"error-message"`
}

type softwareInformation struct {
	HostName     string `xml:"host-name"`
	ProductModel string `xml:"product-model"`
	JunosVersion string `xml:"junos-version"`
}

type ospfNeighborInformation struct {
	Neighbors []ospfNeighbor `xml:"ospf-neighbor"`
}

type ospfNeighbor struct {
	NeighborID      string `xml:"neighbor-id"`
	NeighborAddress string `xml:"neighbor-address"`
	InterfaceName   string `xml:"interface-name"`
	State           string `xml:"ospf-neighbor-state"`
	Area            string `xml:"ospf-area"`
	AdjacencyTime   string `xml:"neighbor-adjacency-time"`
	DeadTime        string `xml:"ospf-neighbor-dead-time"`
}

// Markers in JUNOS rpc-error messages that mean the OSPF subsystem or the
// requested instance is not running, as opposed to a broken fetch.
// Classified here at the boundary into the tagged error kind.
var inactiveMarkers = []string{
	"not running",
	"not configured",
	"unknown instance",
	"invalid routing instance",
}

func (c *Client) exec(ctx context.Context, payload string) (*rpcReply, error) {
	raw, err := c.nc.rpc(ctx, payload)
	if err != nil {
		return nil, err
	}

	return decodeReply(raw, c.logger)
}

// decodeReply unmarshals one rpc-reply and classifies any rpc-error
// elements: inactive-subsystem markers become the tagged error kind,
// warnings are logged and ignored, anything else fails the fetch.
func decodeReply(raw string, logger zerolog.Logger) (*rpcReply, error) {
	var reply rpcReply
	if err := xml.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: decoding rpc reply: %w", fetcher.ErrFetchFailed, err)
	}

	for i := range reply.Errors {
		msg := strings.TrimSpace(reply.Errors[i].Message)
		lower := strings.ToLower(msg)

		for _, marker := range inactiveMarkers {
			if strings.Contains(lower, marker) {
				return nil, fmt.Errorf("%w: %s", fetcher.ErrSubsystemInactive, msg)
			}
		}

		if strings.EqualFold(reply.Errors[i].Severity, "warning") {
			logger.Debug().Str("message", msg).Msg("Ignoring rpc warning")
			continue
		}

		return nil, fmt.Errorf("%w: rpc error: %s", fetcher.ErrFetchFailed, msg)
	}

	return &reply, nil
}

// DeviceIdentity fetches get-software-information for the identity block.
func (c *Client) DeviceIdentity(ctx context.Context) (models.RawRecord, error) {
	reply, err := c.exec(ctx, "<get-software-information/>")
	if err != nil {
		return nil, err
	}

	rec := models.RawRecord{}

	if sw := reply.Software; sw != nil {
		if sw.HostName != "" {
			rec["hostname"] = sw.HostName
		}

		if sw.ProductModel != "" {
			rec["model"] = sw.ProductModel
		}

		if sw.JunosVersion != "" {
			rec["version"] = sw.JunosVersion
		}
	}

	return rec, nil
}

// Items fetches the OSPF neighbor table for the queried instance and
// optional area, in device order. Table identifiers are synthetic
// (address + interface) because a router ID can appear on several links.
func (c *Client) Items(ctx context.Context, q fetcher.Query) (*models.Table, error) {
	var sb strings.Builder

	sb.WriteString("<get-ospf-neighbor-information>")

	if q.Instance != "" {
		sb.WriteString("<instance>" + xmlEscape(q.Instance) + "</instance>")
	}

	if q.Area != "" {
		sb.WriteString("<area>" + xmlEscape(q.Area) + "</area>")
	}

	sb.WriteString("<extensive/></get-ospf-neighbor-information>")

	reply, err := c.exec(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	return neighborTable(reply), nil
}

func neighborTable(reply *rpcReply) *models.Table {
	table := models.NewTable()

	if reply.OSPF == nil {
		return table
	}

	for i := range reply.OSPF.Neighbors {
		nbr := &reply.OSPF.Neighbors[i]

		id := strings.TrimSpace(nbr.NeighborAddress) + "|" + strings.TrimSpace(nbr.InterfaceName)

		table.Add(id, models.RawRecord{
			"neighbor_id":      strings.TrimSpace(nbr.NeighborID),
			"neighbor_address": strings.TrimSpace(nbr.NeighborAddress),
			"interface":        strings.TrimSpace(nbr.InterfaceName),
			"state":            strings.TrimSpace(nbr.State),
			"area":             strings.TrimSpace(nbr.Area),
			"adjacency_time":   strings.TrimSpace(nbr.AdjacencyTime),
			"dead_time":        strings.TrimSpace(nbr.DeadTime),
		})
	}

	return table
}

// SideTable is unused for OSPF: the extensive neighbor RPC carries every
// attribute the schema needs.
func (c *Client) SideTable(_ context.Context, _ string, _ fetcher.Query) (*models.Table, error) {
	return models.NewTable(), nil
}

func xmlEscape(s string) string {
	var sb strings.Builder

	_ = xml.EscapeText(&sb, []byte(s))

	return sb.String()
}
