// Package envelope implements the wire shape shared by every participant and
// the codecs that hide command and response text inside fields that read as
// ordinary zone telemetry.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

var (
	// ErrInvalidAction is returned when a command is built with an action
	// outside the recognized enumeration.
	ErrInvalidAction = errors.New("action not in the recognized set")

	// ErrMalformedEnvelope is returned when bytes off the bus cannot be read
	// as an envelope at all.
	ErrMalformedEnvelope = errors.New("malformed envelope")
)

// Envelope is the single wire entity. Every field except the decorative
// timestamp is optional; which ones are present decides what the message is.
// At most one of ShortPayload and LongPayload is ever set.
type Envelope struct {
	DecorativeTimestamp string   `json:"decorative_timestamp"`
	Identity            string   `json:"identity,omitempty"`
	ActionMarker        string   `json:"action_marker,omitempty"`
	ShortPayload        []string `json:"short_payload,omitempty"`
	LongPayload         string   `json:"long_payload,omitempty"`
}

var knownFields = map[string]bool{
	"decorative_timestamp": true,
	"identity":             true,
	"action_marker":        true,
	"short_payload":        true,
	"long_payload":         true,
}

// BuildCommand constructs an outbound command envelope. The argument, when
// non-empty, rides along as the hidden message.
func BuildCommand(action Action, argument string) (*Envelope, error) {
	token, ok := actionTokens[action]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}

	e := &Envelope{
		ActionMarker:        token,
		DecorativeTimestamp: decorativeNow(token),
	}
	if err := e.attach(argument); err != nil {
		return nil, err
	}
	return e, nil
}

// BuildResponse constructs an outbound response envelope. Responses carry the
// sender's self-chosen identity and never an action marker.
func BuildResponse(identity, message string) (*Envelope, error) {
	e := &Envelope{
		Identity:            identity,
		DecorativeTimestamp: decorativeNow(""),
	}
	if err := e.attach(message); err != nil {
		return nil, err
	}
	return e, nil
}

// Parse decodes raw bytes into an Envelope. Bytes that are not a JSON object,
// or that carry top-level keys outside the known five, are rejected: traffic
// from unrelated publishers must not get past this point. Known keys holding
// an unexpected type are tolerated and read as absent.
func Parse(data []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	// A JSON null unmarshals into a nil map without error.
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedEnvelope)
	}
	for key := range fields {
		if !knownFields[key] {
			return nil, fmt.Errorf("%w: unexpected field %q", ErrMalformedEnvelope, key)
		}
	}

	var e Envelope
	if v, ok := fields["decorative_timestamp"]; ok {
		_ = json.Unmarshal(v, &e.DecorativeTimestamp)
	}
	if v, ok := fields["identity"]; ok {
		_ = json.Unmarshal(v, &e.Identity)
	}
	if v, ok := fields["action_marker"]; ok {
		_ = json.Unmarshal(v, &e.ActionMarker)
	}
	if v, ok := fields["short_payload"]; ok {
		_ = json.Unmarshal(v, &e.ShortPayload)
	}
	if v, ok := fields["long_payload"]; ok {
		_ = json.Unmarshal(v, &e.LongPayload)
	}
	return &e, nil
}

// Encode serializes the envelope for publishing. Absent fields are omitted so
// the wire object stays minimal.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Action resolves the action marker against the action table,
// case-insensitively. ok is false when the marker is absent or unrecognized.
func (e *Envelope) Action() (Action, bool) {
	if e.ActionMarker == "" {
		return 0, false
	}
	return lookupAction(e.ActionMarker)
}

// HiddenMessage recovers the hidden text, if any. The long slot is consulted
// first; a well-formed envelope never sets both.
func (e *Envelope) HiddenMessage() (string, error) {
	if e.LongPayload != "" {
		return chunkDecode(e.LongPayload)
	}
	if len(e.ShortPayload) > 0 {
		return substitutionDecode(e.ShortPayload), nil
	}
	return "", nil
}

// attach hides message in the envelope, dispatching on length: short text is
// substitution-encoded, long text is chunk-distributed. The two slots stay
// mutually exclusive.
func (e *Envelope) attach(message string) error {
	e.ShortPayload = nil
	e.LongPayload = ""

	if message == "" {
		return nil
	}
	if utf8.RuneCountInString(message) <= substitutionLimit {
		e.ShortPayload = substitutionEncode(message)
		return nil
	}
	long, err := chunkEncode(message)
	if err != nil {
		return err
	}
	e.LongPayload = long
	return nil
}

// decorativeNow renders the timestamp that makes the envelope pass for sync
// telemetry. When zone names a real location the time is rendered there, as a
// genuine device in that zone would report it; the value carries no meaning.
func decorativeNow(zone string) string {
	now := time.Now()
	if zone != "" {
		if loc, err := time.LoadLocation(zone); err == nil {
			now = now.In(loc)
		}
	}
	return now.Format(time.RFC3339)
}
