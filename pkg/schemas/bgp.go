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

package schemas

import (
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
)

// StateEstablished is the healthy BGP session state.
const StateEstablished = "Established"

// CiscoIdentity maps the IOS-XE collaborator's identity record onto the
// identity slots. The collaborator already emits canonical key names.
func CiscoIdentity() report.IdentityKeys {
	return report.IdentityKeys{
		Hostname: []string{"hostname"},
		Platform: []string{"platform"},
		Model:    []string{"model"},
		Version:  []string{"version"},
	}
}

// BGPContext builds the {local_as, router_id} block emitted between the
// device identity and the neighbor sequence.
func BGPContext(localAS, routerID string) *models.ReportContext {
	return &models.ReportContext{
		Key: "bgp",
		Value: models.OrderedRecord{
			{Name: "local_as", Value: localAS},
			{Name: "router_id", Value: routerID},
		},
	}
}

// BGPNeighbors is the BGP session-status schema. Neighbors keep the
// device's collection order (no ranking key); the established/down summary
// pair is complementary so the two always sum to the total.
func BGPNeighbors() *report.Schema {
	return &report.Schema{
		ItemsKey:  "neighbors",
		IDName:    "neighbor_ip",
		TotalName: "total_neighbors",
		Fields: []report.FieldSpec{
			{Name: "remote_as", Key: "remote_as", Kind: report.String, Default: models.UnknownValue},
			{Name: "state", Key: "state", Kind: report.String, Default: models.UnknownValue},
			{Name: "uptime", Key: "uptime", Kind: report.String, Default: "N/A"},
			{Name: "prefixes_received", Key: "prefixes_received", Kind: report.Int},
			{Name: "prefixes_sent", Key: "prefixes_sent", Kind: report.Int},
			{Name: "description", Key: "description", Kind: report.String},
		},
		Classes: []report.ClassSpec{
			{
				Counter:    "established_sessions",
				Complement: "down_sessions",
				Match: func(it *models.Item) bool {
					return it.Str("state") == StateEstablished
				},
			},
		},
	}
}
