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

// cisco-bgp-status reports BGP neighbor sessions on Cisco IOS-XE devices
// as a JSON document for health monitoring and change validation. A
// device with BGP unconfigured produces a valid empty report with a
// status annotation, not an error.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/netscope/netreport/pkg/cli"
	"github.com/netscope/netreport/pkg/config"
	"github.com/netscope/netreport/pkg/fetcher"
	"github.com/netscope/netreport/pkg/fetcher/ciscossh"
	"github.com/netscope/netreport/pkg/logger"
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
	"github.com/netscope/netreport/pkg/schemas"
)

const (
	notConfigured  = "Not configured"
	inactiveStatus = "BGP not configured or not active on this device"
)

var errHostRequired = errors.New("host is required")

type bgpStatusConfig struct {
	Host     string        `json:"host"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Port     int           `json:"port"`
	Neighbor string        `json:"neighbor"`
	Logging  logger.Config `json:"logging"`
}

func (c *bgpStatusConfig) Validate() error {
	if c.Host == "" {
		return errHostRequired
	}

	return nil
}

func main() {
	os.Exit(cli.Run(run))
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to JSON config file (optional)")
	host := flag.String("host", "", "Cisco IOS-XE device hostname or IP")
	username := flag.String("username", "", "SSH username")
	password := flag.String("password", "", "SSH password")
	port := flag.Int("port", 22, "SSH port")
	neighbor := flag.String("neighbor", "", "Specific BGP neighbor IP to check")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	var cfg bgpStatusConfig

	if *configPath != "" {
		if err := config.NewConfig().LoadAndValidate(ctx, *configPath, &cfg); err != nil {
			return err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "username":
			cfg.Username = *username
		case "password":
			cfg.Password = *password
		case "port":
			cfg.Port = *port
		case "neighbor":
			cfg.Neighbor = *neighbor
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

	log := logger.WithComponent("cisco-bgp-status")

	client, err := ciscossh.Dial(ctx, ciscossh.Config{
		Host:     cfg.Host,
		Username: cfg.Username,
		Password: cfg.Password,
		Port:     cfg.Port,
	}, log)
	if err != nil {
		return err
	}
	defer client.Close()

	deviceRaw, err := client.DeviceIdentity(ctx)
	if err != nil {
		return err
	}

	device := report.ResolveIdentity(deviceRaw, "Cisco IOS-XE", schemas.CiscoIdentity())
	if device.Hostname == models.UnknownValue {
		device.Hostname = cfg.Host
	}

	schema := schemas.BGPNeighbors()

	localAS, routerID, err := client.BGPSummary(ctx)
	if err != nil {
		if errors.Is(err, fetcher.ErrSubsystemInactive) {
			log.Info().Str("host", cfg.Host).Msg("BGP not active, emitting degraded report")

			return renderInactive(device, schema)
		}

		return err
	}

	primary, err := client.Items(ctx, fetcher.Query{SpecificID: cfg.Neighbor})
	if err != nil {
		if errors.Is(err, fetcher.ErrSubsystemInactive) {
			log.Info().Str("host", cfg.Host).Msg("BGP not active, emitting degraded report")

			return renderInactive(device, schema)
		}

		return err
	}

	rep, err := report.Normalize(report.Input{
		Device:   deviceRaw,
		Platform: "Cisco IOS-XE",
		Identity: schemas.CiscoIdentity(),
		Primary:  primary,
	}, schema, report.Options{
		SpecificID: cfg.Neighbor,
		Context:    schemas.BGPContext(localAS, routerID),
	})
	if err != nil {
		return err
	}

	if rep.Device.Hostname == models.UnknownValue {
		rep.Device.Hostname = cfg.Host
	}

	return cli.RenderJSON(os.Stdout, rep)
}

// renderInactive emits the degraded zero-neighbor report. This is a
// designed outcome, not an error: the command still exits 0.
func renderInactive(device models.DeviceInfo, schema *report.Schema) error {
	rep := report.Degraded(device, schema, schemas.BGPContext(notConfigured, notConfigured), inactiveStatus)

	return cli.RenderJSON(os.Stdout, rep)
}
