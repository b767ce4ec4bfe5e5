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

// Package cli implements the output contract every command shares:
// pretty-printed JSON on stdout for automation, diagnostics on stderr for
// humans, exit 0 on success (including degraded reports), exit 1 only on
// errors.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/netscope/netreport/pkg/models"
)

// Exit codes. Degraded "subsystem inactive" reports are successes.
const (
	ExitOK    = 0
	ExitError = 1
)

const jsonIndent = "  "

// RenderJSON pretty-prints v to w.
func RenderJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))

	return err
}

// Fail emits the two-field error document to stdout so automation always
// receives parseable JSON, and a readable message to stderr.
func Fail(stdout, stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)

	doc := models.ErrorDocument{Error: err.Error(), Success: false}
	if renderErr := RenderJSON(stdout, doc); renderErr != nil {
		fmt.Fprintf(stderr, "Error: rendering error document: %v\n", renderErr)
	}

	return ExitError
}

// Run executes a command body and maps its outcome onto the exit-code
// contract. Intended as os.Exit(cli.Run(run)) from main.
func Run(run func(ctx context.Context) error) int {
	if err := run(context.Background()); err != nil {
		return Fail(os.Stdout, os.Stderr, err)
	}

	return ExitOK
}
