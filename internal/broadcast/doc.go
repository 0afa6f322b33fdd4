// Package broadcast relays domain-change notifications from the background
// process to the UI surfaces that display them.
//
// The background process owns sites, groups and timeout messages. Whenever it
// mutates one of them it emits an [Envelope] of the shape
//
//	{"type": "BROADCAST", "event": "siteUpdated", "data": {...}}
//
// on a shared channel. Each mounted surface owns one [Relay], which holds
// exactly one listener on that channel and fans matching envelopes out to a
// strongly typed [Handlers] set.
//
// # Main Types
//
//   - [Event]: closed union of the nine payload types ([SiteAdded], [SiteUpdated], ...)
//   - [Envelope]: the wire shape; [Decode] turns it into an [Event]
//   - [Channel]: the injected transport; [Hub] (in-process) and [FileChannel]
//     (tails a JSONL log written by the background process) implement it
//   - [Relay]: per-surface subscription with fault isolation
//   - [Log]: append-only producer used by developer tooling and tests
//
// # Fault Isolation
//
// A handler that returns an error or panics is logged with the event name and
// swallowed. Later envelopes keep flowing to every handler, and the fault never
// reaches the channel or any other surface.
//
// # Forward Compatibility
//
// Envelopes whose type is not BROADCAST are ignored silently. Event names the
// relay does not know yet, and events the surface registered no handler for,
// are dropped without error.
//
// # Basic Usage
//
//	hub := broadcast.NewHub(logger)
//	relay := broadcast.NewRelay(hub, logger.WithSurface("popup"))
//
//	unsubscribe := relay.Subscribe(broadcast.Handlers{
//	    OnSiteAdded: func(e broadcast.SiteAdded) error {
//	        return sites.Add(e.Site)
//	    },
//	})
//	defer unsubscribe()
//
//	// Or a single event:
//	relay.SubscribeOne(broadcast.EventGroupDeleted, func(e broadcast.Event) error { ... })
package broadcast
