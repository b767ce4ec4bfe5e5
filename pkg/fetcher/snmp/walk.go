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

package snmp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/netscope/netreport/pkg/fetcher"
)

// walkColumn bulk-walks one interface-table column and returns the PDUs
// keyed by interface index (the last OID segment).
func (c *Client) walkColumn(oid string) (map[int]gosnmp.SnmpPDU, error) {
	column := make(map[int]gosnmp.SnmpPDU)

	err := c.snmp.BulkWalk(oid, func(pdu gosnmp.SnmpPDU) error {
		segments := strings.Split(pdu.Name, ".")

		idx, convErr := strconv.Atoi(segments[len(segments)-1])
		if convErr != nil {
			return nil // not an indexed row, skip
		}

		column[idx] = pdu

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", fetcher.ErrFetchFailed, oid, err)
	}

	return column, nil
}

func sortedIndexes(column map[int]gosnmp.SnmpPDU) []int {
	indexes := make([]int, 0, len(column))
	for idx := range column {
		indexes = append(indexes, idx)
	}

	sort.Ints(indexes)

	return indexes
}

// pduString extracts a string value from OctetString or similar PDUs.
func pduString(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// pduUint extracts an unsigned numeric value from counter and gauge PDUs.
func pduUint(pdu gosnmp.SnmpPDU) uint64 {
	if pdu.Value == nil {
		return 0
	}

	return gosnmp.ToBigInt(pdu.Value).Uint64()
}
