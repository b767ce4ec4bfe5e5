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

package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

func TestExtractString(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.RawRecord
		key      string
		def      string
		expected string
	}{
		{
			name:     "present string",
			rec:      models.RawRecord{"status": "up"},
			key:      "status",
			expected: "up",
		},
		{
			name:     "missing key falls back",
			rec:      models.RawRecord{},
			key:      "status",
			def:      "unknown",
			expected: "unknown",
		},
		{
			name:     "wrong type falls back",
			rec:      models.RawRecord{"status": 42},
			key:      "status",
			def:      "unknown",
			expected: "unknown",
		},
		{
			name:     "nil value falls back",
			rec:      models.RawRecord{"status": nil},
			key:      "status",
			def:      "unknown",
			expected: "unknown",
		},
		{
			name:     "nil record falls back",
			rec:      nil,
			key:      "status",
			def:      "unknown",
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractString(tt.rec, tt.key, tt.def))
		})
	}
}

func TestExtractInt(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		def      int64
		expected int64
	}{
		{name: "int", value: 7, expected: 7},
		{name: "int64", value: int64(7), expected: 7},
		{name: "uint64", value: uint64(7), expected: 7},
		{name: "float64 from json decode", value: float64(7), expected: 7},
		{name: "json.Number", value: json.Number("7"), expected: 7},
		{name: "numeric string", value: "7", expected: 7},
		{name: "fractional string is malformed", value: "7.5", def: -1, expected: -1},
		{name: "non-numeric string", value: "lots", def: -1, expected: -1},
		{name: "wrong type", value: []string{"7"}, def: -1, expected: -1},
		{name: "nil value", value: nil, def: -1, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.RawRecord{"count": tt.value}
			assert.Equal(t, tt.expected, ExtractInt(rec, "count", tt.def))
		})
	}

	t.Run("missing key", func(t *testing.T) {
		assert.Equal(t, int64(-1), ExtractInt(models.RawRecord{}, "count", -1))
	})
}

func TestExtractFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		def      float64
		expected float64
	}{
		{name: "float64", value: 1.5, expected: 1.5},
		{name: "int", value: 3, expected: 3},
		{name: "json.Number", value: json.Number("1.5"), expected: 1.5},
		{name: "numeric string", value: "1.5", expected: 1.5},
		{name: "non-numeric string", value: "fast", def: -1, expected: -1},
		{name: "wrong type", value: true, def: -1, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.RawRecord{"rate": tt.value}
			assert.InDelta(t, tt.expected, ExtractFloat(rec, "rate", tt.def), 1e-9)
		})
	}
}

func TestExtractRecord(t *testing.T) {
	nested := map[string]any{"inRate": 5.0}
	rec := models.RawRecord{"counters": nested, "flat": "text"}

	assert.Equal(t, models.RawRecord(nested), ExtractRecord(rec, "counters"))
	assert.Empty(t, ExtractRecord(rec, "flat"))
	assert.Empty(t, ExtractRecord(rec, "absent"))
	assert.Empty(t, ExtractRecord(nil, "counters"))
}

func TestTableFromRecord(t *testing.T) {
	t.Run("mapping of mappings", func(t *testing.T) {
		table, err := TableFromRecord(map[string]any{
			"Ethernet2": map[string]any{"linkStatus": "down"},
			"Ethernet1": map[string]any{"linkStatus": "up"},
		})
		require.NoError(t, err)

		// Identifiers sort for determinism; JSON objects carry no order.
		assert.Equal(t, []string{"Ethernet1", "Ethernet2"}, table.IDs())
		assert.Equal(t, "up", table.Get("Ethernet1")["linkStatus"])
	})

	t.Run("non-mapping row degrades to empty record", func(t *testing.T) {
		table, err := TableFromRecord(map[string]any{"Ethernet1": "garbage"})
		require.NoError(t, err)

		assert.Equal(t, 1, table.Len())
		assert.Empty(t, table.Get("Ethernet1"))
	})

	t.Run("nil collection is empty", func(t *testing.T) {
		table, err := TableFromRecord(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("non-mapping collection is a fetch failure", func(t *testing.T) {
		_, err := TableFromRecord([]any{"Ethernet1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, fetcher.ErrFetchFailed))
	})
}
