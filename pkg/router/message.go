package router

import "math"

// RouterID identifies a message router.
type RouterID uint8

// Reserved router IDs.
const (
	// AllRouters is the broadcast destination: every subscriber of a
	// message ID receives the message.
	AllRouters RouterID = math.MaxUint8

	// MaxRouterID is the largest assignable router ID.
	MaxRouterID RouterID = math.MaxUint8 - 1
)

// MessageID classifies a message.
type MessageID uint32

// Message is a routable message: a numeric class plus an opaque payload.
type Message struct {
	// ID classifies the message; subscriptions are keyed on it.
	ID MessageID

	// Payload is the message body. It is passed through untouched.
	Payload any
}

// Router resolves a destination and delivers a message to it.
type Router interface {
	// Receive delivers msg to dest. The reserved AllRouters destination
	// is a broadcast.
	Receive(dest RouterID, msg Message)
}
