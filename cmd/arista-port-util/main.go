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

// arista-port-util reports per-port utilization for Arista EOS switches
// as a JSON document for capacity planning and monitoring automation.
// Telemetry comes from eAPI by default, or from SNMP on devices without
// the HTTP API enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/netscope/netreport/pkg/cli"
	"github.com/netscope/netreport/pkg/config"
	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/fetcher/eapi"
	"github.com/netscope/netreport/pkg/fetcher/snmp"
	"github.com/netscope/netreport/pkg/logger"
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
	"github.com/netscope/netreport/pkg/schemas"
)

const (
	sourceEAPI = "eapi"
	sourceSNMP = "snmp"

	defaultThreshold      = 70
	defaultSampleInterval = 10 * time.Second
)

var (
	errHostRequired     = errors.New("host is required")
	errUnknownSource    = errors.New("source must be eapi or snmp")
	errUnknownTransport = errors.New("transport must be http or https")
)

type portUtilConfig struct {
	Host           string        `json:"host"`
	Username       string        `json:"username"`
	Password       string        `json:"password"`
	Transport      string        `json:"transport"`
	Port           int           `json:"port"`
	Threshold      float64       `json:"threshold"`
	Insecure       bool          `json:"insecure"`
	Source         string        `json:"source"`
	Community      string        `json:"community"`
	SampleInterval time.Duration `json:"sample_interval"`
	Logging        logger.Config `json:"logging"`
}

func defaults() portUtilConfig {
	return portUtilConfig{
		Transport:      "https",
		Threshold:      defaultThreshold,
		Source:         sourceEAPI,
		SampleInterval: defaultSampleInterval,
	}
}

func (c *portUtilConfig) Validate() error {
	if c.Host == "" {
		return errHostRequired
	}

	if c.Source != sourceEAPI && c.Source != sourceSNMP {
		return fmt.Errorf("%w: %q", errUnknownSource, c.Source)
	}

	if c.Transport != "http" && c.Transport != "https" {
		return fmt.Errorf("%w: %q", errUnknownTransport, c.Transport)
	}

	return nil
}

func main() {
	os.Exit(cli.Run(run))
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to JSON config file (optional)")
	host := flag.String("host", "", "Arista EOS switch hostname or IP")
	username := flag.String("username", "", "eAPI username")
	password := flag.String("password", "", "eAPI password")
	transport := flag.String("transport", "https", "eAPI transport protocol (http or https)")
	port := flag.Int("port", 0, "eAPI port (default 443, or 80 for http)")
	threshold := flag.Float64("threshold", defaultThreshold, "Utilization threshold % to highlight")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification (self-signed certs)")
	source := flag.String("source", sourceEAPI, "Telemetry source: eapi or snmp")
	community := flag.String("community", "", "SNMPv2c community (snmp source)")
	sampleSecs := flag.Int("sample-interval", 10, "SNMP counter sampling window in seconds")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	cfg := defaults()

	if *configPath != "" {
		if err := config.NewConfig().LoadAndValidate(ctx, *configPath, &cfg); err != nil {
			return err
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "username":
			cfg.Username = *username
		case "password":
			cfg.Password = *password
		case "transport":
			cfg.Transport = *transport
		case "port":
			cfg.Port = *port
		case "threshold":
			cfg.Threshold = *threshold
		case "insecure":
			cfg.Insecure = *insecure
		case "source":
			cfg.Source = *source
		case "community":
			cfg.Community = *community
		case "sample-interval":
			cfg.SampleInterval = time.Duration(*sampleSecs) * time.Second
		case "debug":
			cfg.Logging.Debug = *debug
		}
	})

	cfg.Username = config.Fallback(cfg.Username, config.EnvUsername)
	cfg.Password = config.Fallback(cfg.Password, config.EnvPassword)

	if err := config.ValidateConfig(&cfg); err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}

	log := logger.WithComponent("arista-port-util")

	var client fetcher.Client

	switch cfg.Source {
	case sourceSNMP:
		snmpClient := snmp.New(snmp.Config{
			Host:           cfg.Host,
			Community:      cfg.Community,
			SampleInterval: cfg.SampleInterval,
		}, log)
		defer snmpClient.Close()

		client = snmpClient
	default:
		client = eapi.New(eapi.Config{
			Host:      cfg.Host,
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: cfg.Transport,
			Port:      cfg.Port,
			Insecure:  cfg.Insecure,
		}, log)
	}

	log.Debug().Str("host", cfg.Host).Str("source", cfg.Source).Msg("Fetching port utilization data")

	deviceRaw, err := client.DeviceIdentity(ctx)
	if err != nil {
		return err
	}

	primary, err := client.Items(ctx, fetcher.Query{})
	if err != nil {
		return err
	}

	side := make(map[string]*models.Table)

	for _, name := range []string{schemas.TableDescriptions, schemas.TableRates, schemas.TableErrors} {
		table, err := client.SideTable(ctx, name, fetcher.Query{})
		if err != nil {
			return err
		}

		side[name] = table
	}

	rep, err := report.Normalize(report.Input{
		Device:   deviceRaw,
		Platform: schemas.PlatformArista,
		Identity: schemas.AristaIdentity(),
		Primary:  primary,
		Side:     side,
	}, schemas.Interfaces(), report.Options{
		Threshold: cfg.Threshold,
		IDFilter:  schemas.IsEthernet,
	})
	if err != nil {
		return err
	}

	// The target we connected to is a better hostname than "Unknown".
	if rep.Device.Hostname == models.UnknownValue {
		rep.Device.Hostname = cfg.Host
	}

	return cli.RenderJSON(os.Stdout, rep)
}
