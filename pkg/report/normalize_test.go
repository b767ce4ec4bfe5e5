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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

var testIdentity = IdentityKeys{
	Hostname: []string{"hostname"},
	Model:    []string{"model"},
	Version:  []string{"version"},
}

// testSchema mirrors the interface-utilization shape closely enough to
// exercise extraction, derived metrics, classification, and ranking.
func testSchema() *Schema {
	return &Schema{
		ItemsKey:  "items",
		IDName:    "name",
		TotalName: "total_items",
		Fields: []FieldSpec{
			{Name: "status", Key: "linkStatus", Kind: String, Default: "unknown"},
			{Name: "bandwidth_mbps", Key: "bandwidth", Kind: Float, Scale: 1e6},
			{Name: "in_rate", Table: "rates", Key: "inRate", Kind: Float, Round: true},
			{Name: "utilization", Kind: Float, Round: true, Compute: func(r *Row) any {
				rate := ExtractFloat(r.Raw("rates"), "inRate", 0)
				capacity := ExtractFloat(r.Raw(""), "bandwidth", 0) / 1e6

				return Percent(rate, capacity)
			}},
			{Name: "errors", Table: "errors", Key: "inErrors", Kind: Int},
			{Name: "busy", Kind: Bool, Compute: func(r *Row) any {
				rate := ExtractFloat(r.Raw("rates"), "inRate", 0)
				capacity := ExtractFloat(r.Raw(""), "bandwidth", 0) / 1e6

				return Percent(rate, capacity) > r.Opts.Threshold
			}},
		},
		Classes: []ClassSpec{
			{Counter: "active_items", Match: func(it *models.Item) bool {
				return it.Str("status") == "up"
			}},
			{Counter: "busy_items", Complement: "idle_items", Match: func(it *models.Item) bool {
				return it.Bool("busy")
			}},
		},
		Rank: func(it *models.Item) float64 {
			return it.Float("utilization")
		},
	}
}

func testInput(primary *models.Table, side map[string]*models.Table) Input {
	return Input{
		Device:   models.RawRecord{"hostname": "sw1", "model": "DCS-7050", "version": "4.30.1F"},
		Platform: "Test OS",
		Identity: testIdentity,
		Primary:  primary,
		Side:     side,
	}
}

func TestNormalizeDerivedMetrics(t *testing.T) {
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{"linkStatus": "up", "bandwidth": float64(1000000000)})

	rates := models.NewTable()
	rates.Add("Ethernet1", models.RawRecord{"inRate": 700.0})

	rep, err := Normalize(testInput(primary, map[string]*models.Table{"rates": rates}),
		testSchema(), Options{Threshold: 70})
	require.NoError(t, err)
	require.Len(t, rep.Items, 1)

	it := rep.Items[0]
	assert.Equal(t, "Ethernet1", it.Str("name"))
	assert.Equal(t, "up", it.Str("status"))
	assert.InDelta(t, 1000.0, it.Float("bandwidth_mbps"), 1e-9)
	assert.InDelta(t, 70.0, it.Float("utilization"), 1e-9)

	// Exactly at the threshold: strict comparison, not flagged.
	assert.False(t, it.Bool("busy"))

	assert.Equal(t, "sw1", rep.Device.Hostname)
	assert.Equal(t, "Test OS", rep.Device.Platform)
	assert.NotEmpty(t, rep.Timestamp)
}

func TestNormalizeFieldIndependence(t *testing.T) {
	// One malformed field must not disturb its siblings or the item.
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{"linkStatus": 99, "bandwidth": "fast"})

	rates := models.NewTable()
	rates.Add("Ethernet1", models.RawRecord{"inRate": 3.0})

	errs := models.NewTable()
	errs.Add("Ethernet1", models.RawRecord{"inErrors": float64(2)})

	rep, err := Normalize(testInput(primary, map[string]*models.Table{"rates": rates, "errors": errs}),
		testSchema(), Options{Threshold: 70})
	require.NoError(t, err)
	require.Len(t, rep.Items, 1)

	it := rep.Items[0]
	assert.Equal(t, "unknown", it.Str("status"))
	assert.Zero(t, it.Float("bandwidth_mbps"))
	assert.InDelta(t, 3.0, it.Float("in_rate"), 1e-9)
	assert.Equal(t, int64(2), it.Int("errors"))

	// Zero capacity: guarded division yields 0, never a fault.
	assert.Zero(t, it.Float("utilization"))
}

func TestNormalizeMissingSideTable(t *testing.T) {
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{"linkStatus": "up"})

	rep, err := Normalize(testInput(primary, nil), testSchema(), Options{})
	require.NoError(t, err)
	require.Len(t, rep.Items, 1)

	// Side-table misses join as defaults, not errors.
	assert.Zero(t, rep.Items[0].Float("in_rate"))
	assert.Zero(t, rep.Items[0].Int("errors"))
}

func TestNormalizeRankDescending(t *testing.T) {
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{"bandwidth": float64(1000000000)})
	primary.Add("Ethernet2", models.RawRecord{"bandwidth": float64(1000000000)})
	primary.Add("Ethernet3", models.RawRecord{"bandwidth": float64(1000000000)})

	rates := models.NewTable()
	rates.Add("Ethernet1", models.RawRecord{"inRate": 10.0})
	rates.Add("Ethernet2", models.RawRecord{"inRate": 900.0})
	rates.Add("Ethernet3", models.RawRecord{"inRate": 500.0})

	rep, err := Normalize(testInput(primary, map[string]*models.Table{"rates": rates}),
		testSchema(), Options{Threshold: 70})
	require.NoError(t, err)
	require.Len(t, rep.Items, 3)

	assert.Equal(t, "Ethernet2", rep.Items[0].ID)
	assert.Equal(t, "Ethernet3", rep.Items[1].ID)
	assert.Equal(t, "Ethernet1", rep.Items[2].ID)
}

func TestNormalizeCollectionOrderWithoutRank(t *testing.T) {
	schema := testSchema()
	schema.Rank = nil

	primary := models.NewTable()
	primary.Add("10.0.0.2", models.RawRecord{})
	primary.Add("10.0.0.1", models.RawRecord{})

	rep, err := Normalize(testInput(primary, nil), schema, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Items, 2)

	assert.Equal(t, "10.0.0.2", rep.Items[0].ID)
	assert.Equal(t, "10.0.0.1", rep.Items[1].ID)
}

func TestNormalizeFilters(t *testing.T) {
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{})
	primary.Add("Management1", models.RawRecord{})
	primary.Add("Ethernet2", models.RawRecord{})

	t.Run("id filter", func(t *testing.T) {
		rep, err := Normalize(testInput(primary, nil), testSchema(), Options{
			IDFilter: func(id string) bool { return id != "Management1" },
		})
		require.NoError(t, err)
		assert.Len(t, rep.Items, 2)
		assert.Equal(t, int64(2), rep.Summary.Count("total_items"))
	})

	t.Run("specific id", func(t *testing.T) {
		rep, err := Normalize(testInput(primary, nil), testSchema(), Options{SpecificID: "Ethernet2"})
		require.NoError(t, err)
		require.Len(t, rep.Items, 1)
		assert.Equal(t, "Ethernet2", rep.Items[0].ID)
	})

	t.Run("specific id absent yields empty report", func(t *testing.T) {
		rep, err := Normalize(testInput(primary, nil), testSchema(), Options{SpecificID: "Ethernet9"})
		require.NoError(t, err)
		assert.Empty(t, rep.Items)
		assert.Equal(t, int64(0), rep.Summary.Count("total_items"))
	})
}

func TestNormalizeSummaryComplement(t *testing.T) {
	primary := models.NewTable()
	primary.Add("Ethernet1", models.RawRecord{"linkStatus": "up", "bandwidth": float64(1000000)})
	primary.Add("Ethernet2", models.RawRecord{"linkStatus": "down", "bandwidth": float64(1000000)})
	primary.Add("Ethernet3", models.RawRecord{"linkStatus": "up", "bandwidth": float64(1000000)})

	rates := models.NewTable()
	rates.Add("Ethernet1", models.RawRecord{"inRate": 0.9})

	rep, err := Normalize(testInput(primary, map[string]*models.Table{"rates": rates}),
		testSchema(), Options{Threshold: 70})
	require.NoError(t, err)

	assert.Equal(t, int64(3), rep.Summary.Count("total_items"))
	assert.Equal(t, int64(2), rep.Summary.Count("active_items"))
	assert.Equal(t, int64(1), rep.Summary.Count("busy_items"))

	// Complement derives from the total so the pair always sums to it.
	assert.Equal(t, int64(2), rep.Summary.Count("idle_items"))
}

func TestNormalizeNilPrimary(t *testing.T) {
	_, err := Normalize(testInput(nil, nil), testSchema(), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetcher.ErrFetchFailed))
}

func TestDegraded(t *testing.T) {
	dev := models.DeviceInfo{
		Hostname: "router1",
		Platform: "Test OS",
		Model:    models.UnknownValue,
		Version:  models.UnknownValue,
	}

	ctx := &models.ReportContext{Key: "subsystem", Value: "inactive"}

	rep := Degraded(dev, testSchema(), ctx, "subsystem not active")

	assert.Equal(t, dev, rep.Device)
	assert.NotNil(t, rep.Items)
	assert.Empty(t, rep.Items)
	assert.Equal(t, "subsystem not active", rep.Status)
	assert.Equal(t, ctx, rep.Context)
	assert.NotEmpty(t, rep.Timestamp)

	assert.Equal(t, int64(0), rep.Summary.Count("total_items"))
	assert.Equal(t, int64(0), rep.Summary.Count("active_items"))
	assert.Equal(t, int64(0), rep.Summary.Count("busy_items"))
	assert.Equal(t, int64(0), rep.Summary.Count("idle_items"))
}

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name     string
		raw      models.RawRecord
		expected models.DeviceInfo
	}{
		{
			name: "all slots present",
			raw:  models.RawRecord{"hostname": "sw1", "model": "DCS-7050", "version": "4.30.1F"},
			expected: models.DeviceInfo{
				Hostname: "sw1", Platform: "Test OS", Model: "DCS-7050", Version: "4.30.1F",
			},
		},
		{
			name: "slots default independently",
			raw:  models.RawRecord{"hostname": "sw1", "model": 42},
			expected: models.DeviceInfo{
				Hostname: "sw1",
				Platform: "Test OS",
				Model:    models.UnknownValue,
				Version:  models.UnknownValue,
			},
		},
		{
			name: "nil record is all unknown",
			raw:  nil,
			expected: models.DeviceInfo{
				Hostname: models.UnknownValue,
				Platform: "Test OS",
				Model:    models.UnknownValue,
				Version:  models.UnknownValue,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveIdentity(tt.raw, "Test OS", testIdentity))
		})
	}

	t.Run("alias keys resolve in order", func(t *testing.T) {
		keys := IdentityKeys{Model: []string{"modelName", "model"}}
		dev := ResolveIdentity(models.RawRecord{"model": "fallback", "modelName": "primary"}, "", keys)
		assert.Equal(t, "primary", dev.Model)
	})

	t.Run("serial only when asked for", func(t *testing.T) {
		raw := models.RawRecord{"serialNumber": "ABC123"}

		without := ResolveIdentity(raw, "", IdentityKeys{})
		assert.Empty(t, without.SerialNumber)

		with := ResolveIdentity(raw, "", IdentityKeys{Serial: []string{"serialNumber"}})
		assert.Equal(t, "ABC123", with.SerialNumber)
	})
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 70.0, Percent(700, 1000), 1e-9)
	assert.Zero(t, Percent(700, 0))
	assert.Zero(t, Percent(700, -1))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 0.01, Round2(0.0123), 1e-9)
	assert.InDelta(t, 69.46, Round2(69.456), 1e-9)
	assert.InDelta(t, 100.0, Round2(99.999), 1e-9)
}
