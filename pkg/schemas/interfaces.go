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

// Package schemas holds the per-domain parameterizations of the report
// pipeline: which fields each item carries, how they are extracted from
// the raw side tables, the derived metrics, and the summary counters.
package schemas

import (
	"strings"

	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
)

// Side-table names served by the interface-utilization collaborators.
const (
	TableDescriptions = "descriptions"
	TableRates        = "rates"
	TableErrors       = "errors"
)

// PlatformArista is the platform label of the eAPI collaborator.
const PlatformArista = "Arista EOS"

// AristaIdentity maps eAPI "show version" output (and the SNMP system
// group, which uses the canonical names) onto the identity slots.
func AristaIdentity() report.IdentityKeys {
	return report.IdentityKeys{
		Hostname: []string{"hostname"},
		Model:    []string{"modelName", "model"},
		Serial:   []string{"serialNumber", "serial_number"},
		Version:  []string{"version"},
	}
}

// IsEthernet restricts the interface report to front-panel Ethernet ports,
// dropping management ports, VLANs, and port channels.
func IsEthernet(id string) bool {
	return strings.HasPrefix(id, "Ethernet")
}

// Interfaces is the port-utilization schema. The primary table is the
// interface status collection (bandwidth, link status); rates, errors, and
// descriptions join as side tables. Utilization percentages derive from
// the unrounded rates, classification uses a strict > threshold, and items
// rank by the larger of the two utilization percentages.
func Interfaces() *report.Schema {
	return &report.Schema{
		ItemsKey:  "interfaces",
		IDName:    "name",
		TotalName: "total_interfaces",
		Fields: []report.FieldSpec{
			{Name: "description", Table: TableDescriptions, Key: "description", Kind: report.String},
			{Name: "status", Key: "linkStatus", Kind: report.String, Default: "unknown"},
			{Name: "bandwidth_mbps", Key: "bandwidth", Kind: report.Float, Scale: 1e6},
			{Name: "input_rate_mbps", Table: TableRates, Key: "inRate", Kind: report.Float, Round: true},
			{Name: "output_rate_mbps", Table: TableRates, Key: "outRate", Kind: report.Float, Round: true},
			{Name: "input_utilization", Kind: report.Float, Round: true, Compute: func(r *report.Row) any {
				return utilization(r, "inRate")
			}},
			{Name: "output_utilization", Kind: report.Float, Round: true, Compute: func(r *report.Row) any {
				return utilization(r, "outRate")
			}},
			{Name: "input_errors", Table: TableErrors, Key: "inErrors", Kind: report.Int},
			{Name: "output_errors", Table: TableErrors, Key: "outErrors", Kind: report.Int},
			{Name: "high_utilization", Kind: report.Bool, Compute: func(r *report.Row) any {
				return utilization(r, "inRate") > r.Opts.Threshold ||
					utilization(r, "outRate") > r.Opts.Threshold
			}},
		},
		Classes: []report.ClassSpec{
			{Counter: "active_interfaces", Match: func(it *models.Item) bool {
				return it.Str("status") == "up"
			}},
			{Counter: "high_utilization_interfaces", Match: func(it *models.Item) bool {
				return it.Bool("high_utilization")
			}},
			{Counter: "error_interfaces", Match: func(it *models.Item) bool {
				return it.Int("input_errors") > 0 || it.Int("output_errors") > 0
			}},
		},
		Rank: func(it *models.Item) float64 {
			return max(it.Float("input_utilization"), it.Float("output_utilization"))
		},
	}
}

// utilization computes the rate-over-capacity percentage from the raw,
// unrounded values so classification is not skewed by output rounding.
// Rates arrive in Mbps; bandwidth arrives in bits per second.
func utilization(r *report.Row, rateKey string) float64 {
	rate := report.ExtractFloat(r.Raw(TableRates), rateKey, 0)
	capacity := report.ExtractFloat(r.Raw(""), "bandwidth", 0) / 1e6

	return report.Percent(rate, capacity)
}
