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

// StateFull is the fully-adjacent OSPF neighbor state.
const StateFull = "Full"

// PlatformJunos is the platform label of the NETCONF collaborator.
const PlatformJunos = "Juniper JUNOS"

// JunosIdentity maps get-software-information output onto the identity
// slots; the collaborator emits canonical key names.
func JunosIdentity() report.IdentityKeys {
	return report.IdentityKeys{
		Hostname: []string{"hostname"},
		Model:    []string{"model"},
		Version:  []string{"version"},
	}
}

// OSPFContext emits the routing instance the neighbors were queried from.
func OSPFContext(instance string) *models.ReportContext {
	return &models.ReportContext{Key: "ospf_instance", Value: instance}
}

// OSPFNeighbors is the OSPF adjacency schema. The table identifier is
// synthetic (neighbor ID alone is not unique across interfaces), so the
// visible neighbor_id is a regular extracted field. Neighbors keep the
// device's collection order; the summary lists the distinct areas seen.
func OSPFNeighbors() *report.Schema {
	return &report.Schema{
		ItemsKey:  "neighbors",
		TotalName: "total_neighbors",
		Fields: []report.FieldSpec{
			{Name: "neighbor_id", Key: "neighbor_id", Kind: report.String},
			{Name: "neighbor_address", Key: "neighbor_address", Kind: report.String},
			{Name: "interface", Key: "interface", Kind: report.String},
			{Name: "state", Key: "state", Kind: report.String},
			{Name: "area", Key: "area", Kind: report.String},
			{Name: "adjacency_time", Key: "adjacency_time", Kind: report.String},
			{Name: "dead_time", Key: "dead_time", Kind: report.String},
		},
		Classes: []report.ClassSpec{
			{
				Counter:    "full_state_neighbors",
				Complement: "non_full_state_neighbors",
				Match: func(it *models.Item) bool {
					return it.Str("state") == StateFull
				},
			},
		},
		SummaryExtras: func(items []*models.Item) []models.Field {
			areas := []string{}
			seen := make(map[string]bool)

			for _, it := range items {
				if area := it.Str("area"); area != "" && !seen[area] {
					seen[area] = true

					areas = append(areas, area)
				}
			}

			return []models.Field{{Name: "areas", Value: areas}}
		},
	}
}
