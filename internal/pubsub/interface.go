package pubsub

// PubSubClient abstracts publishing and decoding of async events so the
// rest of the application does not depend on the Google Pub/Sub SDK.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
