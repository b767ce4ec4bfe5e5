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

// dns-checker answers whether a DNS record exists for a hostname.
// Both answers exit 0; the exit code only signals tool failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/netscope/netreport/pkg/cli"
	"github.com/netscope/netreport/pkg/dnscheck"
	"github.com/netscope/netreport/pkg/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var (
	errHostnameRequired = errors.New("hostname is required")
	errUnknownOutput    = errors.New("output must be one of: text, json")
)

func main() {
	os.Exit(cli.Run(run))
}

func run(ctx context.Context) error {
	hostname := flag.String("hostname", "", "Hostname to resolve")
	output := flag.String("output", outputText, "Output format: text or json")
	timeout := flag.Duration("timeout", 5*time.Second, "Resolution timeout")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	if *hostname == "" {
		return errHostnameRequired
	}

	if *output != outputText && *output != outputJSON {
		return errUnknownOutput
	}

	if err := logger.Init(logger.Config{Debug: *debug}); err != nil {
		return err
	}

	checker := dnscheck.New(*timeout, logger.WithComponent("dns-checker"))
	result := checker.Check(ctx, *hostname)

	if *output == outputJSON {
		return cli.RenderJSON(os.Stdout, result)
	}

	if result.Exists {
		fmt.Printf("DNS record for %s exists.\n", result.Hostname)
		fmt.Printf("IP address: %s\n", result.Addresses[0])
	} else {
		fmt.Printf("DNS record for %s does not exist.\n", result.Hostname)
	}

	return nil
}
