package hanzii

// WordDefinition is the normalized result of a dictionary lookup.
// The upstream API returns structurally different payloads for different
// entry types; exactly one of PartOfSpeechSections / Meanings / Definition /
// Usage / Examples is authoritative for rendering, chosen in that order.
type WordDefinition struct {
	ID            string
	Word          string
	Pronunciation string
	Definition    string
	Meanings      []string
	Examples      []string
	Usage         []UsageExample

	PartOfSpeechSections []PartOfSpeechSection

	Measure  *MeasureInfo
	Synonyms *SynonymInfo

	ImageURL         string
	FallbackImageURL string
	AudioID          int
}

// PartOfSpeechSection groups meanings under a single grammatical code.
type PartOfSpeechSection struct {
	Kind      string
	KindLabel string
	Meanings  []Meaning
}

// Meaning is a single gloss with optional explanation and examples.
type Meaning struct {
	Mean     string
	Explain  string
	Examples []UsageExample
}

// UsageExample pairs a target-language sentence with its translation.
type UsageExample struct {
	Chinese string
	Meaning string
	Pinyin  string
	Source  string
}

// MeasureInfo holds measure-word data for a headword.
type MeasureInfo struct {
	Measure  string `json:"measure"`
	Examples string `json:"examples"`
	Pinyin   string `json:"pinyin"`
}

// SynonymInfo holds synonym/antonym lists.
type SynonymInfo struct {
	Synonyms []string `json:"syno"`
	Antonyms []string `json:"anto"`
}

// Suggestion is a single query-as-you-type result.
type Suggestion struct {
	Word        string
	DisplayText string
}

// User holds the account profile returned by the login endpoint.
type User struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	VerifyEmail string `json:"verify_email"`
	Language    string `json:"language"`
	Image       string `json:"image"`
	Email       string `json:"email"`
	IsPremium   string `json:"is_premium"`
}

// AuthResponse is the login endpoint envelope.
type AuthResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Result  *User  `json:"result"`
}
