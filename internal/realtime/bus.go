package realtime

import "log"

// Bus fans a hire event out to every live connection of the addressed user.
// Delivery is best effort: no acknowledgement, no retry, and a connection
// that is mid-close may silently drop the event.
type Bus struct {
	registry *Registry
}

func NewBus(registry *Registry) *Bus {
	return &Bus{registry: registry}
}

// Publish pushes ev to each of userID's sessions. Events published for the
// same user reach a given connection in publish order; no ordering holds
// across different connections.
func (b *Bus) Publish(userID string, ev Event) {
	for _, s := range b.registry.ConnectionsFor(userID) {
		if !s.Offer(ev) {
			log.Printf("realtime: dropped %s event for user %s (session closed or backed up)", ev.Type, userID)
		}
	}
}
