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

package ciscossh

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/netscope/netreport/pkg/models"
)

var (
	versionRegex  = regexp.MustCompile(`Version ([^,\s]+)`)
	modelRegex    = regexp.MustCompile(`(?mi)^cisco (\S+)\s.*\bprocessor\b`)
	localASRegex  = regexp.MustCompile(`local AS number (\d+)`)
	routerIDRegex = regexp.MustCompile(`BGP router identifier (\d+\.\d+\.\d+\.\d+)`)

	neighborRegex   = regexp.MustCompile(`BGP neighbor is (\d+\.\d+\.\d+\.\d+),\s+remote AS (\d+)`)
	stateRegex      = regexp.MustCompile(`BGP state = (\w+)`)
	uptimeRegex     = regexp.MustCompile(`Up for (\d+:\d+:\d+|\d+\w+\d+\w+)`)
	rxPrefixesRegex = regexp.MustCompile(`(\d+) accepted prefixes`)
	txPrefixesRegex = regexp.MustCompile(`(\d+) announced prefixes`)
	descRegex       = regexp.MustCompile(`Description: (.*)`)
)

// Not-active markers IOS-XE prints when BGP is unconfigured. Matching
// happens here, at the adapter boundary, and surfaces only as the tagged
// ErrSubsystemInactive; nothing downstream ever sniffs error text.
var inactiveMarkers = []string{
	"% BGP not active",
	"BGP not active",
	"No existing session",
}

func isInactive(out string) bool {
	for _, marker := range inactiveMarkers {
		if strings.Contains(out, marker) {
			return true
		}
	}

	return false
}

// ParseNeighbors splits "show ip bgp neighbors" output into per-neighbor
// records, in device order. A section any single regex fails to match
// just lacks that field; the record still joins the table. "% No such
// neighbor" and an empty neighbor list both parse to an empty table,
// which is a valid zero-neighbor report, not an error.
func ParseNeighbors(out string) *models.Table {
	table := models.NewTable()

	sections := strings.Split(out, "BGP neighbor is")
	if len(sections) < 2 {
		return table
	}

	for _, section := range sections[1:] {
		section = "BGP neighbor is" + section

		m := neighborRegex.FindStringSubmatch(section)
		if m == nil {
			continue
		}

		rec := models.RawRecord{
			"remote_as": m[2],
		}

		if sm := stateRegex.FindStringSubmatch(section); sm != nil {
			rec["state"] = sm[1]
		}

		if um := uptimeRegex.FindStringSubmatch(section); um != nil {
			rec["uptime"] = um[1]
		}

		if rm := rxPrefixesRegex.FindStringSubmatch(section); rm != nil {
			rec["prefixes_received"] = mustInt(rm[1])
		}

		if tm := txPrefixesRegex.FindStringSubmatch(section); tm != nil {
			rec["prefixes_sent"] = mustInt(tm[1])
		}

		if dm := descRegex.FindStringSubmatch(section); dm != nil {
			rec["description"] = strings.TrimSpace(dm[1])
		}

		table.Add(m[1], rec)
	}

	return table
}

func mustInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
