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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableInsertionOrder(t *testing.T) {
	table := NewTable()
	table.Add("10.0.0.3", RawRecord{"state": "Idle"})
	table.Add("10.0.0.1", RawRecord{"state": "Established"})
	table.Add("10.0.0.2", RawRecord{"state": "Active"})

	assert.Equal(t, []string{"10.0.0.3", "10.0.0.1", "10.0.0.2"}, table.IDs())
	assert.Equal(t, 3, table.Len())
}

func TestTableReAddReplacesInPlace(t *testing.T) {
	table := NewTable()
	table.Add("a", RawRecord{"v": 1})
	table.Add("b", RawRecord{"v": 2})
	table.Add("a", RawRecord{"v": 3})

	assert.Equal(t, []string{"a", "b"}, table.IDs())
	assert.Equal(t, 3, table.Get("a")["v"])
}

func TestTableGetAbsent(t *testing.T) {
	table := NewTable()
	table.Add("a", nil)

	assert.NotNil(t, table.Get("missing"))
	assert.Empty(t, table.Get("missing"))
	assert.NotNil(t, table.Get("a"))
}

func TestTableNilSafe(t *testing.T) {
	var table *Table

	assert.Empty(t, table.Get("a"))
	assert.Zero(t, table.Len())
	assert.Nil(t, table.IDs())
}
