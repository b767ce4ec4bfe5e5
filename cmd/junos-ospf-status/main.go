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

// junos-ospf-status reports OSPF neighbor adjacencies on Juniper JUNOS
// devices as a JSON document, fetched over NETCONF. A device or routing
// instance without OSPF running produces a valid empty report with a
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
	"github.com/netscope/netreport/pkg/fetcher/junos"
	"github.com/netscope/netreport/pkg/logger"
	"github.com/netscope/netreport/pkg/models"
	"github.com/netscope/netreport/pkg/report"
	"github.com/netscope/netreport/pkg/schemas"
)

const (
	defaultInstance = "master"
	inactiveStatus  = "OSPF not configured or not active on this device"
)

var errHostRequired = errors.New("host is required")

type ospfStatusConfig struct {
	Host     string        `json:"host"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Port     int           `json:"port"`
	Instance string        `json:"instance"`
	Area     string        `json:"area"`
	Logging  logger.Config `json:"logging"`
}

func (c *ospfStatusConfig) Validate() error {
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
	host := flag.String("host", "", "Juniper JUNOS device hostname or IP")
	username := flag.String("username", "", "NETCONF username")
	password := flag.String("password", "", "NETCONF password")
	port := flag.Int("port", 830, "NETCONF port")
	instance := flag.String("instance", defaultInstance, "OSPF routing-instance")
	area := flag.String("area", "", "Specific OSPF area to check")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	cfg := ospfStatusConfig{Instance: defaultInstance}

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
		case "instance":
			cfg.Instance = *instance
		case "area":
			cfg.Area = *area
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

	log := logger.WithComponent("junos-ospf-status")

	client, err := junos.Dial(ctx, junos.Config{
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

	schema := schemas.OSPFNeighbors()
	reportCtx := schemas.OSPFContext(cfg.Instance)

	primary, err := client.Items(ctx, fetcher.Query{Instance: cfg.Instance, Area: cfg.Area})
	if err != nil {
		if errors.Is(err, fetcher.ErrSubsystemInactive) {
			log.Info().Str("host", cfg.Host).Str("instance", cfg.Instance).
				Msg("OSPF not active, emitting degraded report")

			device := report.ResolveIdentity(deviceRaw, schemas.PlatformJunos, schemas.JunosIdentity())
			if device.Hostname == models.UnknownValue {
				device.Hostname = cfg.Host
			}

			return cli.RenderJSON(os.Stdout, report.Degraded(device, schema, reportCtx, inactiveStatus))
		}

		return err
	}

	rep, err := report.Normalize(report.Input{
		Device:   deviceRaw,
		Platform: schemas.PlatformJunos,
		Identity: schemas.JunosIdentity(),
		Primary:  primary,
	}, schema, report.Options{Context: reportCtx})
	if err != nil {
		return err
	}

	if rep.Device.Hostname == models.UnknownValue {
		rep.Device.Hostname = cfg.Host
	}

	return cli.RenderJSON(os.Stdout, rep)
}
