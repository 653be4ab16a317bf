package envelope

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const (
	// substitutionLimit is the longest text the substitution codec accepts;
	// anything longer is chunk-distributed.
	substitutionLimit = 100

	minFragment = 7
	maxFragment = 20

	// decodeVisitCeiling bounds the round-robin replay so malformed input
	// cannot spin the decoder forever.
	decodeVisitCeiling = 10000
)

// ErrDecodeOverrun is returned when chunk-distribution decoding exceeds the
// token-visit ceiling.
var ErrDecodeOverrun = errors.New("chunk decode exceeded visit ceiling")

// substitutionEncode maps each character of text to its zone token.
// Characters outside the table fall back to the space token, so they do not
// round-trip; that loss is deliberate.
func substitutionEncode(text string) []string {
	tokens := make([]string, 0, len(text))
	for _, ch := range text {
		token, ok := charToToken[ch]
		if !ok {
			token = charToToken[' ']
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// substitutionDecode reverses substitutionEncode, case-insensitively. Tokens
// with no table entry are dropped, not substituted.
func substitutionDecode(tokens []string) string {
	var b strings.Builder
	for _, token := range tokens {
		if ch, ok := tokenToChar[strings.ToUpper(token)]; ok {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// chunkEncode hides text as a zone-to-fragments JSON object that passes for
// zone configuration data. The base64 form of the text is cut into fragments
// of random length and fragment i lands on ring token i mod len(ring), so
// order is recoverable without storing it.
func chunkEncode(text string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))

	var fragments []string
	for i := 0; i < len(encoded); {
		n := minFragment + rand.Intn(maxFragment-minFragment+1)
		if i+n > len(encoded) {
			n = len(encoded) - i
		}
		fragments = append(fragments, encoded[i:i+n])
		i += n
	}

	dist := make(map[string][]string)
	for i, frag := range fragments {
		token := tokenRing[i%len(tokenRing)]
		dist[token] = append(dist[token], frag)
	}

	out, err := json.Marshal(dist)
	if err != nil {
		return "", fmt.Errorf("chunk payload: %w", err)
	}
	return string(out), nil
}

// chunkDecode reverses chunkEncode by strict round-robin replay: walk the
// ring from position 0, consume the next stored fragment whenever the current
// token still has one, otherwise move on. Because encode assigned fragments
// round-robin by position, replaying the same walk restores the original
// order. Keys outside the ring are ignored.
func chunkDecode(payload string) (string, error) {
	var dist map[string][]string
	if err := json.Unmarshal([]byte(payload), &dist); err != nil {
		return "", fmt.Errorf("chunk payload: %w", err)
	}

	byToken := make(map[string][]string, len(dist))
	remaining := 0
	for key, frags := range dist {
		upper := strings.ToUpper(key)
		if _, ok := tokenToChar[upper]; !ok {
			continue
		}
		byToken[upper] = append(byToken[upper], frags...)
		remaining += len(frags)
	}

	consumed := make(map[string]int, len(byToken))
	var b strings.Builder
	for idx := 0; remaining > 0; idx++ {
		if idx >= decodeVisitCeiling {
			return "", ErrDecodeOverrun
		}
		token := strings.ToUpper(tokenRing[idx%len(tokenRing)])
		if frags := byToken[token]; consumed[token] < len(frags) {
			b.WriteString(frags[consumed[token]])
			consumed[token]++
			remaining--
		}
	}

	raw, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return "", fmt.Errorf("chunk payload: %w", err)
	}
	return string(raw), nil
}
