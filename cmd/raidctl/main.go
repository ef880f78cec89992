// Command raidctl drives a raid5.Volume over file-backed devices.
// create calls raid5.Create; every other command first starts the
// volume from its devices' service records, after which stop and
// resync run that one raid5.Volume operation and serve exposes the
// volume's state over /metrics.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/alecthomas/kingpin.v2"

	"raid5vol/internal/config"
	"raid5vol/internal/raidlog"
	"raid5vol/internal/raidmetrics"
	"raid5vol/pkg/device"
	"raid5vol/pkg/raid5"
)

var (
	action     = kingpin.Arg("action", "create, start, status, stop, resync, or serve").Required().Enum("create", "start", "status", "stop", "resync", "serve")
	configFile = kingpin.Flag("config-file", "path to the device manifest").Default("raidctl.yaml").Envar("RAIDCTL_CONFIG_FILE").String()
	volumeName = kingpin.Flag("name", "volume name, used as a metrics label").Default("vol0").String()
)

func main() {
	kingpin.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	raidlog.SetLevel(cfg.LogLevel)

	arr, err := openArray(cfg)
	if err != nil {
		raidlog.Errorf("open devices: %v", err)
		os.Exit(1)
	}
	defer arr.Close()

	if err := run(*action, cfg, arr); err != nil {
		raidlog.Errorf("%s: %v", *action, err)
		os.Exit(1)
	}
}

func openArray(cfg *config.Config) (*device.Array, error) {
	devices := make([]device.SectorDevice, len(cfg.Devices))
	for i, path := range cfg.Devices {
		d, err := device.NewFileDevice(path, cfg.Sectors)
		if err != nil {
			return nil, fmt.Errorf("device %d (%s): %w", i, path, err)
		}
		devices[i] = d
	}
	return device.NewArray(devices)
}

func run(action string, cfg *config.Config, arr *device.Array) error {
	bd := arr.BlockDevice()

	switch action {
	case "create":
		ok, err := raid5.Create(bd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("create reported failure")
		}
		raidlog.Infof("volume %s created across %d devices", *volumeName, bd.Devices)
		return nil

	case "start":
		v := raid5.NewVolume()
		state, err := v.Start(bd)
		if err != nil {
			return err
		}
		raidlog.Infof("volume %s started: %s (failed device %d)", *volumeName, state, v.FailedDevice())
		return nil

	case "status":
		v := raid5.NewVolume()
		state, err := v.Start(bd)
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil

	case "stop":
		v := raid5.NewVolume()
		if _, err := v.Start(bd); err != nil {
			return err
		}
		v.Stop()
		raidlog.Infof("volume %s stopped", *volumeName)
		return nil

	case "resync":
		v := raid5.NewVolume()
		if _, err := v.Start(bd); err != nil {
			return err
		}
		if v.Resync() != 1 {
			return fmt.Errorf("resync failed from state %s", v.Status())
		}
		raidlog.Infof("volume %s resynced", *volumeName)
		return nil

	case "serve":
		return serve(cfg, bd)
	}

	return fmt.Errorf("unknown action %q", action)
}

// serve starts a volume, samples its state into Prometheus gauges once,
// and serves /metrics until the listener stops. The gauges are not
// refreshed afterwards, so changes made by other raidctl invocations
// against the same device files do not show up.
func serve(cfg *config.Config, bd raid5.BlockDevice) error {
	v := raid5.NewVolume()
	state, err := v.Start(bd)
	if err != nil {
		return err
	}
	raidlog.Infof("volume %s serving from state %s", *volumeName, state)

	reg := prometheus.NewRegistry()
	metrics := raidmetrics.NewMetrics(reg, *volumeName)
	metrics.Observe(v)

	if cfg.MetricsAddr == "" {
		return fmt.Errorf("metricsAddr not configured")
	}

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	raidlog.Infof("metrics listening on %s", cfg.MetricsAddr)
	return http.ListenAndServe(cfg.MetricsAddr, nil)
}
