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

// Package models defines the report document types shared by the
// normalization pipeline and the fetch adapters.
package models

import "time"

// RawRecord is an untyped per-device record as decoded from a collaborator
// (eAPI JSON, NETCONF XML, scraped CLI text). No schema is enforced: any
// field may be missing, null, or of an unexpected type.
type RawRecord map[string]any

// TimestampFormat is the capture-time layout used in every report:
// second precision, no timezone.
const TimestampFormat = "2006-01-02T15:04:05"

// UnknownValue is substituted for any device identity slot that cannot be
// resolved from the raw record.
const UnknownValue = "Unknown"

// DeviceInfo is the device identity block at the top of every report.
// Each slot is resolved independently and defaults to "Unknown".
type DeviceInfo struct {
	Hostname     string `json:"hostname"`
	Platform     string `json:"platform"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number,omitempty"`
	Version      string `json:"version"`
}

// Field is one named output value. Items and summaries are ordered field
// sequences rather than maps so the emitted JSON has a stable key order.
type Field struct {
	Name  string
	Value any
}

// Item is one normalized entity: a port, a BGP neighbor, an OSPF adjacency.
// Fields appear in schema order; the first field is the identifier.
type Item struct {
	ID     string
	Fields []Field

	// Rank orders the report output (descending). Items from schemas
	// without a ranking key keep their collection order.
	Rank    float64
	HasRank bool
}

// Str returns the named string field, or "" when absent or not a string.
func (it *Item) Str(name string) string {
	if v, ok := it.lookup(name).(string); ok {
		return v
	}

	return ""
}

// Int returns the named counter field, or 0 when absent or not an integer.
func (it *Item) Int(name string) int64 {
	if v, ok := it.lookup(name).(int64); ok {
		return v
	}

	return 0
}

// Float returns the named gauge field, or 0 when absent or not a float.
func (it *Item) Float(name string) float64 {
	switch v := it.lookup(name).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the named flag field, or false when absent.
func (it *Item) Bool(name string) bool {
	if v, ok := it.lookup(name).(bool); ok {
		return v
	}

	return false
}

func (it *Item) lookup(name string) any {
	for i := range it.Fields {
		if it.Fields[i].Name == name {
			return it.Fields[i].Value
		}
	}

	return nil
}

// Summary holds the aggregate counters over a report's items, in output
// order. Values are int64 counters or, for schema extras, string slices.
type Summary struct {
	Fields []Field
}

// Count returns the named summary counter, or 0 when absent.
func (s *Summary) Count(name string) int64 {
	for i := range s.Fields {
		if v, ok := s.Fields[i].Value.(int64); ok && s.Fields[i].Name == name {
			return v
		}
	}

	return 0
}

// ReportContext is the optional per-domain block between the device
// identity and the item sequence, e.g. {"bgp": {...}} or
// {"ospf_instance": "master"}.
type ReportContext struct {
	Key   string
	Value any
}

// Report is the single output document every command emits.
type Report struct {
	Device    DeviceInfo
	Timestamp string
	Context   *ReportContext

	// ItemsKey is the domain name of the item sequence
	// ("interfaces", "neighbors").
	ItemsKey string
	Items    []*Item

	Summary Summary

	// Status annotates a degraded report, e.g. when the monitored
	// subsystem is confirmed inactive on the device. Empty on normal runs.
	Status string
}

// Stamp records the capture time on the report.
func (r *Report) Stamp(now time.Time) {
	r.Timestamp = now.Format(TimestampFormat)
}
