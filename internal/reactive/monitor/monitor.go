// Package monitor implements the per-entity monitor task pattern: a
// background loop that fans in N heterogeneous backend change streams
// and translates each into a Property write on the entity, self-
// terminating once the entity has no more strong owners.
package monitor

import (
	"reflect"

	"github.com/haldis-dev/deskd/internal/reactive/entityref"
)

// Source is one backend change stream feeding a monitor loop. Chan must
// be a reflect.Value wrapping a receive-capable channel (chan T for
// whatever T that particular attribute's updates carry — PlaybackStatus
// updates are strings, Volume updates are float64, etc). Apply is called
// with the received value whenever this source fires; it is expected to
// call Property.Set on the corresponding entity field.
type Source struct {
	Name  string
	Chan  reflect.Value
	Apply func(payload any)
}

// NewSource is a convenience constructor that does the reflect.ValueOf
// for callers holding a concrete chan T.
func NewSource[T any](name string, ch <-chan T, apply func(T)) Source {
	return Source{
		Name: name,
		Chan: reflect.ValueOf(ch),
		Apply: func(payload any) {
			apply(payload.(T))
		},
	}
}

// Run drives the monitor loop described in the core spec: each
// iteration, attempt to upgrade weak; if that fails the entity has been
// dropped and the loop returns. Otherwise await exactly one of sources
// (or the owner going away) and apply it. The strong value obtained from
// Upgrade is never retained past the single iteration it was checked in,
// satisfying the "drop the strong upgrade before looping" requirement
// without needing an explicit release step.
func Run[E any](weak entityref.Weak[E], sources []Source) {
	live := make([]Source, len(sources))
	copy(live, sources)

	for {
		if _, ok := weak.Upgrade(); !ok {
			return
		}
		if len(live) == 0 {
			return
		}

		cases := make([]reflect.SelectCase, 0, len(live)+1)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(weak.Done())})
		for _, s := range live {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: s.Chan})
		}

		chosen, recv, recvOK := reflect.Select(cases)
		if chosen == 0 {
			// Owner gone: entity has no more strong holders.
			return
		}

		srcIdx := chosen - 1
		if !recvOK {
			// This source's stream ended. Drop it; terminate once every
			// source has ended (spec: "task termination is also
			// triggered when all input change streams end").
			live = append(live[:srcIdx], live[srcIdx+1:]...)
			continue
		}

		live[srcIdx].Apply(recv.Interface())
	}
}
