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

import (
	"bytes"
	"encoding/json"
)

// The report document has a fixed top-level key order (device, timestamp,
// context, items, summary, status). Go maps do not preserve order, so the
// report types marshal themselves from ordered field sequences.

func marshalOrdered(fields []Field) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(fields[i].Name)
		if err != nil {
			return nil, err
		}

		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(fields[i].Value)
		if err != nil {
			return nil, err
		}

		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON emits the item's fields in schema order.
func (it *Item) MarshalJSON() ([]byte, error) {
	return marshalOrdered(it.Fields)
}

// MarshalJSON emits the summary counters in schema order.
func (s Summary) MarshalJSON() ([]byte, error) {
	return marshalOrdered(s.Fields)
}

// OrderedRecord is a context block with a stable key order, used for
// report context values like the BGP {local_as, router_id} block.
type OrderedRecord []Field

func (o OrderedRecord) MarshalJSON() ([]byte, error) {
	return marshalOrdered(o)
}

// MarshalJSON emits the fixed report shape. Items marshal as an empty
// array, never null, so degraded reports stay structurally valid.
func (r *Report) MarshalJSON() ([]byte, error) {
	items := r.Items
	if items == nil {
		items = []*Item{}
	}

	fields := []Field{
		{Name: "device", Value: r.Device},
		{Name: "timestamp", Value: r.Timestamp},
	}

	if r.Context != nil {
		fields = append(fields, Field{Name: r.Context.Key, Value: r.Context.Value})
	}

	itemsKey := r.ItemsKey
	if itemsKey == "" {
		itemsKey = "items"
	}

	fields = append(fields,
		Field{Name: itemsKey, Value: items},
		Field{Name: "summary", Value: r.Summary},
	)

	if r.Status != "" {
		fields = append(fields, Field{Name: "status", Value: r.Status})
	}

	return marshalOrdered(fields)
}

// ErrorDocument is the two-field document written to stdout when a command
// fails, so automation consuming the stream always gets parseable JSON.
type ErrorDocument struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}
