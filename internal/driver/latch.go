package driver

import (
	"context"
	"time"

	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// latch is a writable device that holds the last accepted setting. On
// startup it publishes its configured initial value; afterwards every
// incoming setting is stored and echoed back out on the value endpoint,
// so observers always see the device's current state.
type latch struct {
	spec    config.DriverConfig
	current any
}

func newLatch(spec config.DriverConfig) *latch {
	return &latch{spec: spec, current: spec.Initial}
}

func (d *latch) Name() string { return d.spec.Name }

func (d *latch) Run(ctx context.Context, client *registry.Client) error {
	values, settings, err := client.RegisterReadWrite(ctx, d.spec.Device)
	if err != nil {
		return err
	}

	// Announce the initial state so late subscribers are not the only
	// ones who miss it.
	d.publish(values, time.Now().UTC())

	for {
		select {
		case <-ctx.Done():
			return nil
		case set, ok := <-settings:
			if !ok {
				return nil
			}
			d.apply(values, set)
		}
	}
}

// apply stores the incoming setting and republishes it as the device's
// value, stamped with the setting's own timestamp.
func (d *latch) apply(values *registry.Broadcaster, set registry.Setting) {
	d.current = set.Value
	d.publish(values, set.At)
}

func (d *latch) publish(values *registry.Broadcaster, at time.Time) {
	values.Send(registry.Value{
		Device:  d.spec.Device,
		At:      at,
		Reading: d.current,
	})
}
