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

import "github.com/netscope/netreport/pkg/models"

// Kind selects the typed extraction applied to a schema field.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

// Row gives a field's Compute hook access to the item built so far and to
// the raw records it is being built from, so derived metrics can work on
// unrounded source values.
type Row struct {
	ID   string
	Item *models.Item
	Opts *Options

	primary models.RawRecord
	side    map[string]*models.Table
}

// Raw returns the raw record backing the named side table for this row,
// or the primary record when name is empty. Always non-nil.
func (r *Row) Raw(name string) models.RawRecord {
	if name == "" {
		if r.primary == nil {
			return models.RawRecord{}
		}

		return r.primary
	}

	return r.side[name].Get(r.ID)
}

// FieldSpec describes one output field of a normalized item.
//
// Extracted fields name a source table and key; Compute fields derive
// their value from the row instead. Either way a field that cannot be
// produced resolves to its default, independently of every other field.
type FieldSpec struct {
	Name string

	// Table is the side-table name the value is extracted from; empty
	// means the primary record. Ignored when Compute is set.
	Table string
	Key   string

	Kind Kind

	// Scale divides numeric raw values when > 0 (e.g. 1e6 for
	// bits-per-second to Mbps).
	Scale float64

	// Round rounds float values to 2 decimal places for output.
	Round bool

	// Default overrides the zero default ("" / 0 / false) for this field.
	Default any

	Compute func(r *Row) any
}

// ClassSpec maps one classification predicate onto summary counters.
// When Complement is set, its value is total minus the counter, so a
// binary domain's two counters always sum to the total.
type ClassSpec struct {
	Counter    string
	Complement string
	Match      func(it *models.Item) bool
}

// Schema is the per-domain parameterization of the pipeline: the output
// fields of an item, the classification counters, and the ranking key.
type Schema struct {
	// ItemsKey names the item sequence in the report
	// ("interfaces", "neighbors").
	ItemsKey string

	// IDName, when set, emits the item identifier as the first output
	// field under this name. Schemas whose identifier is synthetic leave
	// it empty and declare the visible identifier as a regular field.
	IDName string

	// TotalName names the total-count summary counter.
	TotalName string

	Fields  []FieldSpec
	Classes []ClassSpec

	// Rank orders output items descending. Nil preserves collection order.
	Rank func(it *models.Item) float64

	// SummaryExtras appends domain-specific summary fields after the
	// counters (e.g. the list of OSPF areas seen).
	SummaryExtras func(items []*models.Item) []models.Field
}

// Options are the per-invocation knobs of the pipeline.
type Options struct {
	// Threshold is the classification percentage for rate-over-capacity
	// schemas. Strict comparison: exactly-at-threshold does not flag.
	Threshold float64

	// IDFilter restricts the working set to matching identifiers.
	IDFilter func(id string) bool

	// SpecificID restricts the working set to exactly one identifier.
	SpecificID string

	// Context is the optional domain block emitted after the timestamp.
	Context *models.ReportContext
}
