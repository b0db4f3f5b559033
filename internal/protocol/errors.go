package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command stream.
	ErrMalformedCommand = "E_MALFORMED_COMMAND"
	ErrUnknownCommand   = "E_UNKNOWN_COMMAND"
	ErrQtyClamped       = "E_QTY_CLAMPED"

	// Collaborators.
	ErrTransportUnavailable = "E_TRANSPORT_UNAVAILABLE"
	ErrOracleUnavailable    = "E_ORACLE_UNAVAILABLE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:      {},
	ErrMalformedCommand:     {},
	ErrUnknownCommand:       {},
	ErrQtyClamped:           {},
	ErrTransportUnavailable: {},
	ErrOracleUnavailable:    {},
	ErrInternal:             {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
