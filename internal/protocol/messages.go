package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Menu            []MenuEntry `json:"menu"`
	MenuDigest      string      `json:"menu_digest"`
	MaxQty          int         `json:"max_qty"`
}

type MenuEntry struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// CHAT (client -> server): free-form craving text, forwarded to the
// ordering oracle.
type ChatMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Text            string `json:"text"`
}

// ORDER (client -> server): a raw command block, bypassing the oracle.
// Used by test rigs and the manual mode.
type OrderMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Commands        string `json:"commands"`
}

// RESULT (server -> client): outcome of one processed block.
type ResultMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Commands        string     `json:"commands"`
	Feedback        []Feedback `json:"feedback"`
	Cart            []CartLine `json:"cart"`
	PreviewWord     uint16     `json:"preview_word"`
	PreviewBinary   string     `json:"preview_binary"`
	Dispensed       int        `json:"dispensed"`
}

type CartLine struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Feedback is one ordered record of observable output from the dispatch
// loop. Surfaces (terminal, UI) render these without interpretation.
type Feedback struct {
	Severity string `json:"severity"` // "INFO" or "WARN"
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
}

// Feedback severities.
const (
	SeverityInfo = "INFO"
	SeverityWarn = "WARN"
)

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
