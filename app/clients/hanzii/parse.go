package hanzii

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// The search endpoint has no discriminant field: multi-word compounds come
// back with part-of-speech tagged content sections, single characters with
// a flatter means list, and some entry types with a bare "tdpt" string
// list. Parsing sniffs the shape and extracts in that priority order.

type searchResponse struct {
	Result []rawEntry `json:"result"`
}

type rawEntry struct {
	MongoID json.RawMessage `json:"_id"`
	ID      json.RawMessage `json:"id"`
	Word    string          `json:"word"`
	Pinyin  string          `json:"pinyin"`
	Content []rawSection    `json:"content"`
	Measure *MeasureInfo    `json:"measure"`
	Snym    *SynonymInfo    `json:"snym"`
	AudioID int             `json:"audio_id"`
}

type rawSection struct {
	Kind  string          `json:"kind"`
	Means json.RawMessage `json:"means"`
}

type rawMean struct {
	Mean     string       `json:"mean"`
	Explain  string       `json:"explain"`
	Examples []rawExample `json:"examples"`
}

type rawExample struct {
	E      string `json:"e"`
	M      string `json:"m"`
	P      string `json:"p"`
	PCn    string `json:"p_cn"`
	Source string `json:"source"`
}

func (e rawExample) usage() UsageExample {
	pinyin := e.P
	if pinyin == "" {
		pinyin = e.PCn
	}
	return UsageExample{Chinese: e.E, Meaning: e.M, Pinyin: pinyin, Source: e.Source}
}

// normalizeEntry converts a raw search result into a WordDefinition.
func normalizeEntry(entry rawEntry, language string) WordDefinition {
	item := WordDefinition{
		ID:            entryID(entry),
		Word:          entry.Word,
		Pronunciation: entry.Pinyin,
		Measure:       entry.Measure,
		Synonyms:      entry.Snym,
		AudioID:       entry.AudioID,
	}

	if len(entry.Content) > 0 {
		if entry.Content[0].Kind != "" {
			parseStructured(&item, entry.Content, language)
		} else {
			parseFlat(&item, entry.Content[0])
		}
	}
	if item.Definition == "" && len(item.Meanings) > 0 {
		item.Definition = strings.Join(item.Meanings, "; ")
	}

	if containsChinese(entry.Word) {
		item.ImageURL = imageURL(entry.Word)
		item.FallbackImageURL = fallbackImageURL(entry.Word)
	}
	return item
}

// parseStructured handles content shaped as part-of-speech sections.
// Examples lacking either a source-language text or a translation are
// dropped. All glosses are also accumulated into the flat Meanings list
// so a fallback Definition can be synthesized.
func parseStructured(item *WordDefinition, sections []rawSection, language string) {
	for _, section := range sections {
		if section.Kind == "" {
			continue
		}
		var means []rawMean
		if err := json.Unmarshal(section.Means, &means); err != nil {
			continue
		}
		posSection := PartOfSpeechSection{
			Kind:      section.Kind,
			KindLabel: PartOfSpeechLabel(section.Kind, language),
		}
		for _, m := range means {
			meaning := Meaning{Mean: m.Mean, Explain: m.Explain}
			for _, ex := range m.Examples {
				if ex.E == "" || ex.M == "" {
					continue
				}
				meaning.Examples = append(meaning.Examples, ex.usage())
			}
			posSection.Meanings = append(posSection.Meanings, meaning)
			if m.Mean != "" {
				item.Meanings = append(item.Meanings, m.Mean)
			}
		}
		item.PartOfSpeechSections = append(item.PartOfSpeechSections, posSection)
	}
	item.Definition = strings.Join(item.Meanings, "; ")
}

// parseFlat handles the simpler content shape used for single characters:
// either an object carrying a "tdpt" string list, or an array of means
// whose elements are objects or bare strings.
func parseFlat(item *WordDefinition, section rawSection) {
	if len(section.Means) == 0 {
		return
	}

	var withTdpt struct {
		Tdpt []string `json:"tdpt"`
	}
	if err := json.Unmarshal(section.Means, &withTdpt); err == nil && len(withTdpt.Tdpt) > 0 {
		item.Meanings = withTdpt.Tdpt
		item.Definition = strings.Join(withTdpt.Tdpt, "; ")
		return
	}

	var list []json.RawMessage
	if err := json.Unmarshal(section.Means, &list); err != nil {
		return
	}
	var defs []string
	for _, raw := range list {
		var m rawMean
		if err := json.Unmarshal(raw, &m); err == nil && m.Mean != "" {
			defs = append(defs, m.Mean)
		} else {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				defs = append(defs, s)
				continue
			}
		}
		for _, ex := range m.Examples {
			if ex.E != "" {
				item.Examples = append(item.Examples, ex.E)
			}
			if ex.E != "" && ex.M != "" {
				item.Usage = append(item.Usage, ex.usage())
			}
		}
	}
	item.Definition = strings.Join(defs, "; ")
}

func entryID(entry rawEntry) string {
	var s string
	if len(entry.MongoID) > 0 && json.Unmarshal(entry.MongoID, &s) == nil && s != "" {
		return s
	}
	if len(entry.ID) > 0 {
		var n json.Number
		if json.Unmarshal(entry.ID, &n) == nil {
			return n.String()
		}
		if json.Unmarshal(entry.ID, &s) == nil {
			return s
		}
	}
	return ""
}

// containsChinese reports whether any rune falls in the CJK unified block.
func containsChinese(text string) bool {
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

// imageURL derives the primary illustration URL from an md5 of the exact
// headword, matching the upstream asset naming scheme.
func imageURL(word string) string {
	sum := md5.Sum([]byte(word))
	return fmt.Sprintf("https://assets.hanzii.net/img_word/%s_h.jpg", hex.EncodeToString(sum[:]))
}

// fallbackImageURL points at a public image search. Best-effort decoration
// only: nothing depends on it returning a relevant image.
func fallbackImageURL(word string) string {
	return "https://th.bing.com/th?q=" + url.QueryEscape(word) +
		"&w=450&h=250&c=7&rs=1&p=0&o=5&dpr=2&pid=1.7&mkt=en-WW&cc=VN&setlang=zh&adlt=moderate&t=1"
}
