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
	"fmt"
	"sort"
	"strconv"

	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/models"
)

// Typed extraction with per-field fallback. Every field pulled out of a
// raw record goes through one of these: a missing key, a wrong type, or an
// unparsable value resolves to the supplied default and never to an error,
// so one malformed field cannot take out its item or the run.

// ExtractString returns rec[key] when it is a string, else def.
func ExtractString(rec models.RawRecord, key, def string) string {
	if rec == nil {
		return def
	}

	if v, ok := rec[key].(string); ok {
		return v
	}

	return def
}

// ExtractInt returns rec[key] coerced to an integer, else def. Strings
// must parse as whole numbers; fractional text is malformed, not truncated.
func ExtractInt(rec models.RawRecord, key string, def int64) int64 {
	if rec == nil {
		return def
	}

	switch v := rec[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}

		return def
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}

		return def
	default:
		return def
	}
}

// ExtractFloat returns rec[key] coerced to a float, else def.
func ExtractFloat(rec models.RawRecord, key string, def float64) float64 {
	if rec == nil {
		return def
	}

	switch v := rec[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}

		return def
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}

		return def
	default:
		return def
	}
}

// ExtractRecord returns the nested mapping at rec[key], or an empty record
// when the key is absent or holds something else.
func ExtractRecord(rec models.RawRecord, key string) models.RawRecord {
	if rec == nil {
		return models.RawRecord{}
	}

	switch v := rec[key].(type) {
	case models.RawRecord:
		return v
	case map[string]any:
		return models.RawRecord(v)
	default:
		return models.RawRecord{}
	}
}

// TableFromRecord converts a decoded mapping-of-mappings (e.g. eAPI's
// interfaceStatuses object) into a Table. Row values that are not
// mappings become empty records; a top-level value that is not a mapping
// at all is a structural failure and reported as such. Identifiers are
// sorted for determinism since JSON objects carry no order.
func TableFromRecord(v any) (*models.Table, error) {
	var src map[string]any

	switch m := v.(type) {
	case models.RawRecord:
		src = m
	case map[string]any:
		src = m
	case nil:
		src = map[string]any{}
	default:
		return nil, fmt.Errorf("%w: item collection is not a mapping (got %T)", fetcher.ErrFetchFailed, v)
	}

	ids := make([]string, 0, len(src))
	for id := range src {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	t := models.NewTable()

	for _, id := range ids {
		if row, ok := src[id].(map[string]any); ok {
			t.Add(id, models.RawRecord(row))
		} else {
			t.Add(id, models.RawRecord{})
		}
	}

	return t, nil
}
