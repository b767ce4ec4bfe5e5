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

// Package snmp fetches interface telemetry over SNMPv2c as a structured
// alternative to eAPI for devices without the HTTP API enabled. Interface
// rates don't exist as SNMP objects, so the adapter samples the 64-bit
// octet counters twice over a short window and derives Mbps from the
// delta, shaping the result into the same tables the eAPI adapter serves.
package snmp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/rs/zerolog"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/schemas"
)

// System group and interface table OIDs.
const (
	oidSysDescr = ".1.3.6.1.2.1.1.1.0"
	oidSysName  = ".1.3.6.1.2.1.1.5.0"

	oidIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	oidIfInErrors    = ".1.3.6.1.2.1.2.2.1.14"
	oidIfOutErrors   = ".1.3.6.1.2.1.2.2.1.20"
	oidIfName        = ".1.3.6.1.2.1.31.1.1.1.1"
	oidIfHCInOctets  = ".1.3.6.1.2.1.31.1.1.1.6"
	oidIfHCOutOctets = ".1.3.6.1.2.1.31.1.1.1.10"
	oidIfHighSpeed   = ".1.3.6.1.2.1.31.1.1.1.15"
	oidIfAlias       = ".1.3.6.1.2.1.31.1.1.1.18"
)

const (
	defaultTimeout        = 5 * time.Second
	defaultRetries        = 1
	defaultSampleInterval = 10 * time.Second
	defaultCommunity      = "public"
	defaultPort           = 161

	bitsPerOctet = 8
)

// sysDescr on Arista reads like "Arista Networks EOS version 4.30.1F
// running on an Arista Networks DCS-7050SX-64"; model and version are
// best-effort extractions from that free text.
var (
	versionRegex = regexp.MustCompile(`version\s+(\S+)`)
	modelRegex   = regexp.MustCompile(`running on an?\s+.*?(\S+)\s*$`)
)

// Config describes one SNMP target.
type Config struct {
	Host      string        `json:"host"`
	Port      uint16        `json:"port"`
	Community string        `json:"community"`
	Timeout   time.Duration `json:"timeout"`

	// SampleInterval is the window between the two counter samples the
	// rate derivation divides over.
	SampleInterval time.Duration `json:"sample_interval"`
}

// Client polls the interface table and implements fetcher.Client.
// All tables come from one collection pass, cached for the invocation.
type Client struct {
	cfg    Config
	logger zerolog.Logger
	snmp   *gosnmp.GoSNMP

	collected bool
	identity  models.RawRecord
	primary   *models.Table
	side      map[string]*models.Table
}

// New builds an SNMP client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.Community == "" {
		cfg.Community = defaultCommunity
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.SampleInterval == 0 {
		cfg.SampleInterval = defaultSampleInterval
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		snmp: &gosnmp.GoSNMP{
			Target:             cfg.Host,
			Port:               cfg.Port,
			Community:          cfg.Community,
			Version:            gosnmp.Version2c,
			Timeout:            cfg.Timeout,
			Retries:            defaultRetries,
			MaxOids:            gosnmp.MaxOids,
			MaxRepetitions:     10,
			ExponentialTimeout: true,
		},
	}
}

// Close shuts the SNMP socket down.
func (c *Client) Close() error {
	if c.snmp.Conn != nil {
		return c.snmp.Conn.Close()
	}

	return nil
}

// DeviceIdentity returns the system-group identity record.
func (c *Client) DeviceIdentity(ctx context.Context) (models.RawRecord, error) {
	if err := c.ensureCollected(ctx); err != nil {
		return nil, err
	}

	return c.identity, nil
}

// Items returns the interface table keyed by ifName.
func (c *Client) Items(ctx context.Context, _ fetcher.Query) (*models.Table, error) {
	if err := c.ensureCollected(ctx); err != nil {
		return nil, err
	}

	return c.primary, nil
}

// SideTable returns the rates, errors, or descriptions table from the
// collection pass.
func (c *Client) SideTable(ctx context.Context, name string, _ fetcher.Query) (*models.Table, error) {
	if err := c.ensureCollected(ctx); err != nil {
		return nil, err
	}

	if t, ok := c.side[name]; ok {
		return t, nil
	}

	return models.NewTable(), nil
}

func (c *Client) ensureCollected(ctx context.Context) error {
	if c.collected {
		return nil
	}

	if err := c.collect(ctx); err != nil {
		return err
	}

	c.collected = true

	return nil
}

// collect performs the single fetch pass: identity, interface attributes,
// then the two counter samples bracketing the rate window.
func (c *Client) collect(ctx context.Context) error {
	if err := c.snmp.Connect(); err != nil {
		return fmt.Errorf("%w: connecting to %s: %w", fetcher.ErrFetchFailed, c.cfg.Host, err)
	}

	if err := c.collectIdentity(); err != nil {
		return err
	}

	names, err := c.walkColumn(oidIfName)
	if err != nil {
		return err
	}

	speeds, err := c.walkColumn(oidIfHighSpeed)
	if err != nil {
		return err
	}

	aliases, err := c.walkColumn(oidIfAlias)
	if err != nil {
		return err
	}

	oper, err := c.walkColumn(oidIfOperStatus)
	if err != nil {
		return err
	}

	inErrs, err := c.walkColumn(oidIfInErrors)
	if err != nil {
		return err
	}

	outErrs, err := c.walkColumn(oidIfOutErrors)
	if err != nil {
		return err
	}

	c.logger.Debug().
		Int("interfaces", len(names)).
		Dur("window", c.cfg.SampleInterval).
		Msg("Sampling interface counters")

	inFirst, outFirst, err := c.sampleOctets()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", fetcher.ErrFetchFailed, ctx.Err())
	case <-time.After(c.cfg.SampleInterval):
	}

	inSecond, outSecond, err := c.sampleOctets()
	if err != nil {
		return err
	}

	window := c.cfg.SampleInterval.Seconds()

	primary := models.NewTable()
	rates := models.NewTable()
	errors := models.NewTable()
	descriptions := models.NewTable()

	for _, idx := range sortedIndexes(names) {
		name := pduString(names[idx])
		if name == "" {
			continue
		}

		primary.Add(name, models.RawRecord{
			// ifHighSpeed is Mbps; the schema expects bits per second.
			"bandwidth":  float64(pduUint(speeds[idx])) * 1e6,
			"linkStatus": operStatusLabel(pduUint(oper[idx])),
		})

		rates.Add(name, models.RawRecord{
			"inRate":  rateMbps(pduUint(inFirst[idx]), pduUint(inSecond[idx]), window),
			"outRate": rateMbps(pduUint(outFirst[idx]), pduUint(outSecond[idx]), window),
		})

		errors.Add(name, models.RawRecord{
			"inErrors":  int64(pduUint(inErrs[idx])),
			"outErrors": int64(pduUint(outErrs[idx])),
		})

		descriptions.Add(name, models.RawRecord{
			"description": pduString(aliases[idx]),
		})
	}

	c.primary = primary
	c.side = map[string]*models.Table{
		schemas.TableRates:        rates,
		schemas.TableErrors:       errors,
		schemas.TableDescriptions: descriptions,
	}

	return nil
}

func (c *Client) collectIdentity() error {
	pkt, err := c.snmp.Get([]string{oidSysName, oidSysDescr})
	if err != nil {
		return fmt.Errorf("%w: reading system group: %w", fetcher.ErrFetchFailed, err)
	}

	rec := models.RawRecord{}

	for _, pdu := range pkt.Variables {
		switch pdu.Name {
		case oidSysName:
			if v := pduString(pdu); v != "" {
				rec["hostname"] = v
			}
		case oidSysDescr:
			descr := pduString(pdu)
			if m := versionRegex.FindStringSubmatch(descr); m != nil {
				rec["version"] = m[1]
			}

			if m := modelRegex.FindStringSubmatch(strings.TrimSpace(descr)); m != nil {
				rec["model"] = m[1]
			}
		}
	}

	c.identity = rec

	return nil
}

func (c *Client) sampleOctets() (in, out map[int]gosnmp.SnmpPDU, err error) {
	in, err = c.walkColumn(oidIfHCInOctets)
	if err != nil {
		return nil, nil, err
	}

	out, err = c.walkColumn(oidIfHCOutOctets)
	if err != nil {
		return nil, nil, err
	}

	return in, out, nil
}

// rateMbps converts an octet-counter delta over the window into Mbps.
// A counter that wrapped or reset between samples yields 0, not a huge
// bogus delta.
func rateMbps(first, second uint64, windowSeconds float64) float64 {
	if windowSeconds <= 0 || second < first {
		return 0
	}

	return float64(second-first) * bitsPerOctet / windowSeconds / 1e6
}

func operStatusLabel(status uint64) string {
	switch status {
	case 1:
		return "up"
	case 2:
		return "down"
	case 3:
		return "testing"
	default:
		return "unknown"
	}
}
