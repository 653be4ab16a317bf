package envelope

// Verdict tags the classification of one inbound payload.
type Verdict int

const (
	// VerdictUnrecognized marks traffic that is not part of the channel. It
	// must be dropped without a reply or any bus-visible reaction.
	VerdictUnrecognized Verdict = iota

	// VerdictCommand marks a controller request.
	VerdictCommand

	// VerdictResponse marks an agent reply.
	VerdictResponse
)

// Command is a classified controller request.
type Command struct {
	Action   Action
	Argument string
}

// Response is a classified agent reply.
type Response struct {
	Identity string
	Message  string
}

// Inbound is the classified form of one bus payload. Exactly one of Command
// and Response is non-nil, matching the verdict.
type Inbound struct {
	Verdict  Verdict
	Command  *Command
	Response *Response
}

// Classify decides what an arbitrary payload on the shared topic is. The
// rules run in order: unparseable bytes are unrecognized; a resolvable action
// marker makes a command; an identity or a non-empty hidden message makes a
// response; everything else is unrecognized. A hidden message that fails to
// decode is treated as absent rather than an error, so one bad payload never
// disturbs the receive path.
func Classify(payload []byte) Inbound {
	env, err := Parse(payload)
	if err != nil {
		return Inbound{Verdict: VerdictUnrecognized}
	}

	if action, ok := env.Action(); ok {
		arg, err := env.HiddenMessage()
		if err != nil {
			arg = ""
		}
		return Inbound{
			Verdict: VerdictCommand,
			Command: &Command{Action: action, Argument: arg},
		}
	}

	msg, err := env.HiddenMessage()
	if err != nil {
		msg = ""
	}
	if env.Identity != "" || msg != "" {
		return Inbound{
			Verdict:  VerdictResponse,
			Response: &Response{Identity: env.Identity, Message: msg},
		}
	}

	return Inbound{Verdict: VerdictUnrecognized}
}
