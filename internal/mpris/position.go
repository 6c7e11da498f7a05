package mpris

import (
	"context"
	"time"
)

// defaultPositionInterval is WatchPosition's default poll period when 0
// is passed for interval.
const defaultPositionInterval = time.Second

// WatchPosition polls a player's Position property on a fixed interval
// and reports it on the returned channel, since Position is deliberately
// not a reactive Property (MPRIS exposes no change notification for it;
// polling is the only option). The channel closes when ctx is done.
func WatchPosition(ctx context.Context, client DBusClient, busName string, interval time.Duration) <-chan time.Duration {
	if interval <= 0 {
		interval = defaultPositionInterval
	}
	out := make(chan time.Duration, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				variant, err := client.GetProperty(busName, mprisObjectPath, playerIface+".Position")
				if err != nil {
					continue
				}
				micros, ok := variant.Value().(int64)
				if !ok {
					continue
				}
				pos := time.Duration(micros) * time.Microsecond
				select {
				case out <- pos:
				default:
				}
			}
		}
	}()

	return out
}
