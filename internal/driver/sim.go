package driver

import (
	"context"
	"math"
	"time"

	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// simPeriod is the number of samples in one full waveform cycle.
const simPeriod = 60

// sim is a read-only signal generator. It registers a single device and
// publishes one sample per interval until cancelled.
type sim struct {
	spec config.DriverConfig
}

func newSim(spec config.DriverConfig) *sim {
	return &sim{spec: spec}
}

func (d *sim) Name() string { return d.spec.Name }

func (d *sim) Run(ctx context.Context, client *registry.Client) error {
	values, err := client.RegisterReadonly(ctx, d.spec.Device)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(d.spec.GetInterval())
	defer ticker.Stop()

	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			values.Send(registry.Value{
				Device:  d.spec.Device,
				At:      now.UTC(),
				Reading: d.sample(step),
			})
		}
	}
}

// sample computes the waveform value for the given step.
func (d *sim) sample(step int) float64 {
	amp := d.spec.Amplitude
	if amp == 0 {
		amp = 1
	}

	phase := float64(step%simPeriod) / simPeriod
	switch d.spec.Waveform {
	case "ramp":
		return amp * phase
	default:
		return amp * math.Sin(2*math.Pi*phase)
	}
}
