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

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netreport/pkg/models"
)

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer

	err := RenderJSON(&buf, map[string]string{"hostname": "sw1"})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"hostname\": \"sw1\"\n}\n", buf.String())
}

func TestFail(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Fail(&stdout, &stderr, errors.New("fetch failed: connection refused"))
	assert.Equal(t, ExitError, code)

	assert.Equal(t, "Error: fetch failed: connection refused\n", stderr.String())

	var doc models.ErrorDocument
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, "fetch failed: connection refused", doc.Error)
	assert.False(t, doc.Success)
}
