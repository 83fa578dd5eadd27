package flow

// Effect is the outcome of handling one incoming message. The transport
// layer realizes effects; the engine and dispatcher only produce them.
type Effect interface {
	isEffect()
}

// SendText delivers a plain text message. Menu asks the transport to
// attach the main reply keyboard.
type SendText struct {
	Text string
	Menu bool
}

// SendPhoto delivers raw image bytes.
type SendPhoto struct {
	Data []byte
}

// SendPoll creates a native poll in the chat.
type SendPoll struct {
	Question        string
	Options         []string
	Anonymous       bool
	MultipleAnswers bool
}

// NoOp produces no outgoing message.
type NoOp struct{}

func (SendText) isEffect()  {}
func (SendPhoto) isEffect() {}
func (SendPoll) isEffect()  {}
func (NoOp) isEffect()      {}
