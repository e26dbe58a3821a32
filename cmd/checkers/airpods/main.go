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

// Command airpods polls nearby BLE advertisements and writes one AirPods
// battery record per tick.
//
//	airpods [-config file] [-output type] [-interval s] [-min-rssi dBm] [-metrics addr] [output-file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/carverauto/podradar/pkg/beacon"
	"github.com/carverauto/podradar/pkg/checker/airpods"
	"github.com/carverauto/podradar/pkg/config"
	"github.com/carverauto/podradar/pkg/lifecycle"
	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/metrics"
	"github.com/carverauto/podradar/pkg/scan"
	"github.com/carverauto/podradar/pkg/sink"
	"github.com/carverauto/podradar/pkg/version"
)

var errTooManyArgs = errors.New("at most one output file may be given")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		log.Fatalf("airpods checker failed: %v", err)
	}
}

type options struct {
	configPath  string
	output      string
	interval    float64
	minRSSI     int
	metricsAddr string
	showVersion bool
	outputPath  string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("airpods", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{set: make(map[string]bool)}

	fs.StringVar(&o.configPath, "config", "", "Path to a JSON or YAML config file")
	fs.StringVar(&o.output, "output", "", "Sink type: console, file, nats or mqtt")
	fs.Float64Var(&o.interval, "interval", 0, "Seconds between polls")
	fs.IntVar(&o.minRSSI, "min-rssi", 0, "Weakest accepted signal in dBm")
	fs.StringVar(&o.metricsAddr, "metrics", "", "Listen address for Prometheus metrics, e.g. :9464")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		o.outputPath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: %v", errTooManyArgs, fs.Args())
	}

	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	return o, nil
}

// apply layers explicitly set flags over the loaded configuration.
func (o *options) apply(cfg *airpods.Config) {
	if o.set["output"] {
		cfg.Output.Type = o.output
	}

	if o.set["interval"] {
		cfg.PollIntervalSeconds = o.interval
	}

	if o.set["min-rssi"] {
		cfg.MinRSSI = o.minRSSI
	}

	if o.set["metrics"] {
		cfg.MetricsAddr = o.metricsAddr
	}

	if o.outputPath != "" {
		cfg.Output.Path = o.outputPath
	}
}

func loadConfig(ctx context.Context, o *options) (*airpods.Config, error) {
	cfg := airpods.DefaultConfig()

	if err := config.NewConfig(nil).LoadAndValidate(ctx, o.configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	if o.showVersion {
		_, err := fmt.Fprintln(stdout, version.GetFullVersion())

		return err
	}

	ctx, cancel := lifecycle.WithSignalCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return err
	}

	componentLogger, err := lifecycle.CreateComponentLogger(ctx, "airpods-checker", &cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create component logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	componentLogger.Info().
		Str("version", version.GetFullVersion()).
		Str("sink", cfg.Output.ResolveType()).
		Msg("Starting airpods checker")

	recorder := startMetrics(ctx, cfg.MetricsAddr, componentLogger)

	out, err := sink.New(ctx, cfg.Output, componentLogger)
	if err != nil {
		return fmt.Errorf("failed to create %s sink: %w", cfg.Output.ResolveType(), err)
	}

	defer func() {
		if err := out.Close(); err != nil {
			componentLogger.Warn().Err(err).Msg("Failed to close sink")
		}
	}()

	service := airpods.NewService(
		componentLogger,
		cfg,
		scan.NewBluetoothScanner(cfg.ScanTimeout(), componentLogger),
		beacon.NewWindow(cfg.Retention()),
		out,
		recorder,
	)

	return service.Run(ctx)
}

func startMetrics(ctx context.Context, addr string, log logger.Logger) metrics.Recorder {
	if addr == "" {
		return metrics.Nop{}
	}

	p := metrics.NewPrometheus()

	go func() {
		if err := metrics.Serve(ctx, addr, p.Registry(), log); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()

	return p
}
