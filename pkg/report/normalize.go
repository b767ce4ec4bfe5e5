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

// Package report implements the device-report normalization pipeline:
// join loosely-structured per-device records by identifier, extract fields
// with per-field fallback, compute derived metrics, classify, aggregate
// summary counters, and emit one stable report document.
//
// The pipeline is pure apart from a clock read for the capture timestamp.
// Per-field and per-item malformation never aborts a run; only a
// structurally unusable primary collection is an error.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

// IdentityKeys lists, per identity slot, the raw key names a collaborator
// may use. Slots resolve independently; the first present string wins.
type IdentityKeys struct {
	Hostname []string
	Platform []string
	Model    []string
	Serial   []string
	Version  []string
}

// Input bundles the raw material of one normalization run.
type Input struct {
	// Device is the raw identity record. May be nil.
	Device models.RawRecord

	// Platform is the collaborator's platform label, used when the raw
	// record does not carry one.
	Platform string

	Identity IdentityKeys

	// Primary is the item collection being iterated. Nil signals that
	// the collaborator could not produce a usable collection.
	Primary *models.Table

	// Side holds the auxiliary tables joined against Primary by
	// identifier. A missing table behaves as empty, not as an error.
	Side map[string]*models.Table
}

// ResolveIdentity maps a raw identity record onto the four device identity
// slots, defaulting each slot independently to "Unknown". It never fails:
// a nil record yields an all-Unknown block.
func ResolveIdentity(raw models.RawRecord, platform string, keys IdentityKeys) models.DeviceInfo {
	dev := models.DeviceInfo{
		Hostname: firstString(raw, keys.Hostname),
		Platform: firstString(raw, keys.Platform),
		Model:    firstString(raw, keys.Model),
		Version:  firstString(raw, keys.Version),
	}

	if dev.Platform == models.UnknownValue && platform != "" {
		dev.Platform = platform
	}

	// Serial number is optional: only emitted when the schema asks for it.
	if len(keys.Serial) > 0 {
		dev.SerialNumber = firstString(raw, keys.Serial)
	}

	return dev
}

func firstString(raw models.RawRecord, names []string) string {
	for _, name := range names {
		if v, ok := raw[name].(string); ok && v != "" {
			return v
		}
	}

	return models.UnknownValue
}

// Normalize runs the pipeline over one fetch's raw records and returns the
// assembled report. The only error condition is a missing primary
// collection; everything else degrades per field.
func Normalize(in Input, schema *Schema, opts Options) (*models.Report, error) {
	if in.Primary == nil {
		return nil, fmt.Errorf("%w: no primary item collection", fetcher.ErrFetchFailed)
	}

	items := make([]*models.Item, 0, in.Primary.Len())

	for _, id := range in.Primary.IDs() {
		if opts.SpecificID != "" && id != opts.SpecificID {
			continue
		}

		if opts.IDFilter != nil && !opts.IDFilter(id) {
			continue
		}

		items = append(items, buildItem(id, in, schema, &opts))
	}

	if schema.Rank != nil {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rank > items[j].Rank
		})
	}

	rep := &models.Report{
		Device:   ResolveIdentity(in.Device, in.Platform, in.Identity),
		Context:  opts.Context,
		ItemsKey: schema.ItemsKey,
		Items:    items,
		Summary:  buildSummary(items, schema),
	}
	rep.Stamp(time.Now())

	return rep, nil
}

// Degraded builds the valid, empty report emitted when the monitored
// subsystem is confirmed inactive: zero items, zeroed counters, identity
// kept where known, and a status annotation describing the condition.
func Degraded(dev models.DeviceInfo, schema *Schema, ctx *models.ReportContext, status string) *models.Report {
	summary := models.Summary{
		Fields: []models.Field{{Name: schema.TotalName, Value: int64(0)}},
	}

	for i := range schema.Classes {
		class := &schema.Classes[i]
		summary.Fields = append(summary.Fields, models.Field{Name: class.Counter, Value: int64(0)})

		if class.Complement != "" {
			summary.Fields = append(summary.Fields, models.Field{Name: class.Complement, Value: int64(0)})
		}
	}

	if schema.SummaryExtras != nil {
		summary.Fields = append(summary.Fields, schema.SummaryExtras(nil)...)
	}

	rep := &models.Report{
		Device:   dev,
		Context:  ctx,
		ItemsKey: schema.ItemsKey,
		Items:    []*models.Item{},
		Summary:  summary,
		Status:   status,
	}
	rep.Stamp(time.Now())

	return rep
}

// Percent is the guarded ratio used for derived utilization metrics:
// value/capacity*100 when capacity > 0, else 0. The guard, not a recover,
// is what keeps division faults out of the pipeline.
func Percent(value, capacity float64) float64 {
	if capacity > 0 {
		return value / capacity * 100
	}

	return 0
}

// Round2 rounds to 2 decimal places, the output precision of every
// percentage-like derived metric.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildItem(id string, in Input, schema *Schema, opts *Options) *models.Item {
	it := &models.Item{ID: id}

	if schema.IDName != "" {
		it.Fields = append(it.Fields, models.Field{Name: schema.IDName, Value: id})
	}

	row := &Row{
		ID:      id,
		Item:    it,
		Opts:    opts,
		primary: in.Primary.Get(id),
		side:    in.Side,
	}

	for i := range schema.Fields {
		spec := &schema.Fields[i]
		it.Fields = append(it.Fields, models.Field{Name: spec.Name, Value: fieldValue(spec, row)})
	}

	if schema.Rank != nil {
		it.Rank = schema.Rank(it)
		it.HasRank = true
	}

	return it
}

func fieldValue(spec *FieldSpec, row *Row) any {
	if spec.Compute != nil {
		return finish(spec, spec.Compute(row))
	}

	rec := row.Raw(spec.Table)

	switch spec.Kind {
	case String:
		def, _ := spec.Default.(string)
		return ExtractString(rec, spec.Key, def)
	case Int:
		def, _ := spec.Default.(int64)
		return ExtractInt(rec, spec.Key, def)
	case Float:
		def, _ := spec.Default.(float64)

		v := ExtractFloat(rec, spec.Key, def)
		if spec.Scale > 0 {
			v /= spec.Scale
		}

		return finish(spec, v)
	case Bool:
		def, _ := spec.Default.(bool)
		if v, ok := rec[spec.Key].(bool); ok {
			return v
		}

		return def
	default:
		return nil
	}
}

func finish(spec *FieldSpec, v any) any {
	if f, ok := v.(float64); ok && spec.Round {
		return Round2(f)
	}

	return v
}

func buildSummary(items []*models.Item, schema *Schema) models.Summary {
	total := int64(len(items))

	summary := models.Summary{
		Fields: []models.Field{{Name: schema.TotalName, Value: total}},
	}

	for i := range schema.Classes {
		class := &schema.Classes[i]

		var count int64

		for _, it := range items {
			if class.Match(it) {
				count++
			}
		}

		summary.Fields = append(summary.Fields, models.Field{Name: class.Counter, Value: count})

		// Complement is derived from the total, never recounted, so the
		// pair always sums correctly.
		if class.Complement != "" {
			summary.Fields = append(summary.Fields, models.Field{Name: class.Complement, Value: total - count})
		}
	}

	if schema.SummaryExtras != nil {
		summary.Fields = append(summary.Fields, schema.SummaryExtras(items)...)
	}

	return summary
}
