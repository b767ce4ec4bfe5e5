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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const showVersionOutput = `Cisco IOS XE Software, Version 17.09.04a
Cisco IOS Software [Cupertino], ISR Software (X86_64_LINUX_IOSD-UNIVERSALK9-M), Version 17.9.4a, RELEASE SOFTWARE (fc3)
Technical Support: http://www.cisco.com/techsupport

cisco ISR4451-X/K9 (2RU) processor with 1687137K/6147K bytes of memory.
Processor board ID FOC12345ABC
`

const showBGPSummaryOutput = `BGP router identifier 10.0.0.1, local AS number 65001
BGP table version is 42, main routing table version 42
`

const showNeighborsOutput = `BGP neighbor is 10.0.0.2,  remote AS 65002, external link
 Description: peer-east
  BGP version 4, remote router ID 10.255.0.2
  BGP state = Established, up for 2w3d
  Up for 15:33:12
    120 accepted prefixes
    45 announced prefixes

BGP neighbor is 10.0.0.3,  remote AS 65003, external link
  BGP version 4, remote router ID 0.0.0.0
  BGP state = Active
`

func TestParseNeighbors(t *testing.T) {
	table := ParseNeighbors(showNeighborsOutput)
	require.Equal(t, 2, table.Len())

	// Device order, not sorted.
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, table.IDs())

	up := table.Get("10.0.0.2")
	assert.Equal(t, "65002", up["remote_as"])
	assert.Equal(t, "Established", up["state"])
	assert.Equal(t, "15:33:12", up["uptime"])
	assert.Equal(t, int64(120), up["prefixes_received"])
	assert.Equal(t, int64(45), up["prefixes_sent"])
	assert.Equal(t, "peer-east", up["description"])

	// Fields the section never printed are simply absent.
	down := table.Get("10.0.0.3")
	assert.Equal(t, "Active", down["state"])
	assert.NotContains(t, down, "uptime")
	assert.NotContains(t, down, "prefixes_received")
	assert.NotContains(t, down, "description")
}

func TestParseNeighborsEmpty(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{name: "no neighbors configured", out: "BGP table version is 1\n"},
		{name: "no such neighbor", out: "% No such neighbor\n"},
		{name: "empty output", out: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := ParseNeighbors(tt.out)
			assert.Equal(t, 0, table.Len())
		})
	}
}

func TestIsInactive(t *testing.T) {
	assert.True(t, isInactive("% BGP not active\n"))
	assert.True(t, isInactive("router1# show ip bgp summary\nBGP not active\n"))
	assert.True(t, isInactive("No existing session\n"))
	assert.False(t, isInactive(showBGPSummaryOutput))
	assert.False(t, isInactive(""))
}

func TestVersionAndModelRegexes(t *testing.T) {
	m := versionRegex.FindStringSubmatch(showVersionOutput)
	require.NotNil(t, m)
	assert.Equal(t, "17.09.04a", m[1])

	mm := modelRegex.FindStringSubmatch(showVersionOutput)
	require.NotNil(t, mm)
	assert.Equal(t, "ISR4451-X/K9", mm[1])
}

func TestSummaryRegexes(t *testing.T) {
	as := localASRegex.FindStringSubmatch(showBGPSummaryOutput)
	require.NotNil(t, as)
	assert.Equal(t, "65001", as[1])

	rid := routerIDRegex.FindStringSubmatch(showBGPSummaryOutput)
	require.NotNil(t, rid)
	assert.Equal(t, "10.0.0.1", rid[1])
}
