// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

// Message is a pre-encoded text frame to be broadcast to clients.
// Topic is the message type clients can filter on; empty means "always deliver".
type Message struct {
	Topic string
	Data  []byte
}

// NewMessage wraps pre-encoded JSON for broadcast under topic.
func NewMessage(topic string, data []byte) Message {
	return Message{Topic: topic, Data: data}
}
