package models

// EventMessage is a serialized analysis event paired with the topic it is
// published under.
type EventMessage struct {
	Topic   string
	Message []byte
}
