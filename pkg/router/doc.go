// Package router provides the message routing collaborators used by
// message-dispatched timers.
//
// A timer registered with a message target carries a Message and a
// destination RouterID. At expiry the scheduler hands the message to the
// configured Router, which resolves the destination. The scheduler itself
// knows nothing about addressing; it only invokes Receive once per expiry.
//
// # Broker
//
// Broker is the standard Router implementation: routers subscribe to the
// message IDs they care about, and Receive fans a message out to every
// subscriber of its ID whose router ID matches the destination. The
// reserved AllRouters destination matches every subscriber.
//
// Broker is safe for concurrent use. Timers that must dispatch from
// interrupt-like contexts should subscribe handlers that do minimal work.
package router
