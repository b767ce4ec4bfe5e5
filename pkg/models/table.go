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

package models

// Table is an ordered per-identifier collection of raw records: the
// primary item set of a report, or one auxiliary side table joined against
// it by identifier. Insertion order is preserved because reports without a
// ranking key keep the device's collection order.
type Table struct {
	ids  []string
	rows map[string]RawRecord
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]RawRecord)}
}

// Add appends a row, preserving insertion order. Re-adding an identifier
// replaces the row without changing its position.
func (t *Table) Add(id string, rec RawRecord) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}

	t.rows[id] = rec
}

// Get returns the row for id. Absent rows come back as an empty record so
// side-table misses join as "no data", not as errors.
func (t *Table) Get(id string) RawRecord {
	if t == nil {
		return RawRecord{}
	}

	if rec, ok := t.rows[id]; ok && rec != nil {
		return rec
	}

	return RawRecord{}
}

// Len reports the number of rows. Nil-safe.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.ids)
}

// IDs returns the identifiers in insertion order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}

	return t.ids
}
