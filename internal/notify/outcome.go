package notify

import "fmt"

// Channel names a delivery channel.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Outcome is the best-effort result of one send. Senders never return errors;
// callers that only fire and forget may ignore it.
type Outcome struct {
	Channel   Channel `json:"channel"`
	Delivered bool    `json:"delivered"`
	Skipped   bool    `json:"skipped,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}

func delivered(ch Channel, detail string) Outcome {
	return Outcome{Channel: ch, Delivered: true, Detail: detail}
}

func skipped(ch Channel, reason string) Outcome {
	return Outcome{Channel: ch, Skipped: true, Detail: reason}
}

func failed(ch Channel, err error) Outcome {
	return Outcome{Channel: ch, Detail: err.Error()}
}

// Result is the metrics label for the outcome.
func (o Outcome) Result() string {
	switch {
	case o.Delivered:
		return "delivered"
	case o.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

func (o Outcome) String() string {
	if o.Detail == "" {
		return fmt.Sprintf("%s:%s", o.Channel, o.Result())
	}
	return fmt.Sprintf("%s:%s (%s)", o.Channel, o.Result(), o.Detail)
}
