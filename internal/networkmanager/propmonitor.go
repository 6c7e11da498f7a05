package networkmanager

import (
	"github.com/godbus/dbus/v5"
	"github.com/haldis-dev/deskd/internal/reactive/entityref"
	"github.com/haldis-dev/deskd/internal/reactive/monitor"
)

const propertiesChangedSignal = "org.freedesktop.DBus.Properties.PropertiesChanged"

// parsePropertiesChanged decodes a standard PropertiesChanged signal
// body (interface, changed, invalidated) into just the changed map.
func parsePropertiesChanged(sig *dbus.Signal) (changed map[string]dbus.Variant, ok bool) {
	if sig.Name != propertiesChangedSignal || len(sig.Body) < 2 {
		return nil, false
	}
	changed, ok = sig.Body[1].(map[string]dbus.Variant)
	return changed, ok
}

// runPropertyMonitor wires a single per-object PropertiesChanged signal
// channel into the generic monitor loop: it upgrades weak on every
// signal firing and hands the changed-properties map to apply. The loop
// self-terminates once weak can no longer be upgraded, exactly as every
// other per-entity monitor in this module does.
func runPropertyMonitor[E any](weak entityref.Weak[E], sigCh chan *dbus.Signal, apply func(e *E, changed map[string]dbus.Variant)) {
	source := monitor.NewSource("propertiesChanged", sigCh, func(sig *dbus.Signal) {
		changed, ok := parsePropertiesChanged(sig)
		if !ok {
			return
		}
		if e, ok := weak.Upgrade(); ok {
			apply(e, changed)
		}
	})
	monitor.Run(weak, []monitor.Source{source})
}
