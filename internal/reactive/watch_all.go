package reactive

import "context"

// WatchAll produces one "something changed" tick whenever any of the
// given properties ticks. Used to expose an aggregated entity snapshot
// stream (e.g. "any change on this player") to consumers that don't want
// to track each field individually.
func WatchAll(ctx context.Context, ps ...Watchable) <-chan struct{} {
	tick := make(chan struct{}, 1)
	cancels := make([]context.CancelFunc, 0, len(ps))
	for _, p := range ps {
		cancels = append(cancels, p.watchTick(ctx, tick))
	}

	go func() {
		<-ctx.Done()
		for _, c := range cancels {
			c()
		}
	}()

	return tick
}
