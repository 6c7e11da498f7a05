package mpris

// Event is the sum type published on a Manager's event bus. Concrete
// types: Added, Removed, PlaybackStateChanged, MetadataChanged.
type Event interface{ isEvent() }

// Added is published once a new player has been discovered, its initial
// snapshot read, and its monitor task spawned.
type Added struct {
	BusName string
}

func (Added) isEvent() {}

// Removed is published once a player's bus name has disappeared.
type Removed struct {
	BusName string
}

func (Removed) isEvent() {}

// PlaybackStateChanged is the fine-grained event a consumer can
// subscribe to without holding the Player entity itself.
type PlaybackStateChanged struct {
	BusName string
	State   PlaybackState
}

func (PlaybackStateChanged) isEvent() {}

// MetadataChanged mirrors PlaybackStateChanged for track metadata.
type MetadataChanged struct {
	BusName  string
	Metadata TrackMetadata
}

func (MetadataChanged) isEvent() {}
