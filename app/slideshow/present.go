package slideshow

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/hanviet"
)

const emptyTemplate = `<section class="empty">
<h2>No Words Found</h2>
<p>No words from today were found in storage.</p>
</section>
`

const pendingTemplate = `<section class="word">
<h2>{{ .Word }}</h2>
<p class="loading">Loading definition...</p>
</section>
`

const failedTemplate = `<section class="word">
<h2>{{ .Word }}</h2>
<p class="error">{{ .Error }}</p>
</section>
`

// defaultLayoutTemplate is the compact split-pane view: pronunciation and
// senses on one side, usage examples on the other.
const defaultLayoutTemplate = `<section class="word split">
<header>
<h2>{{ .Word }}</h2>
{{- if .Pronunciation }}
<p class="pronunciation">/{{ .Pronunciation }}/{{ if .Reading }} [{{ .Reading }}]{{ end }}</p>
{{- end }}
<span class="counter">{{ inc .Active }} / {{ .Total }}</span>
</header>
<div class="senses">
{{- if .Definition.PartOfSpeechSections }}
{{- range $s := .Definition.PartOfSpeechSections }}
<h3>{{ $s.KindLabel }}</h3>
{{- range $m := $s.Meanings }}
<p>{{ $m.Mean }}{{ if $m.Explain }} — {{ $m.Explain }}{{ end }}</p>
{{- range $e := $m.Examples }}
<blockquote>{{ $e.Chinese }}{{ if $e.Pinyin }} ({{ $e.Pinyin }}){{ end }} — {{ $e.Meaning }}</blockquote>
{{- end }}
{{- end }}
{{- end }}
{{- else if .Definition.Meanings }}
{{- range $m := .Definition.Meanings }}
<p>{{ $m }}</p>
{{- end }}
{{- else if .Definition.Definition }}
<p>{{ .Definition.Definition }}</p>
{{- else if .Definition.Usage }}
{{- range $u := .Definition.Usage }}
<blockquote>{{ $u.Chinese }} — {{ $u.Meaning }}</blockquote>
{{- end }}
{{- else if .Definition.Examples }}
{{- range $e := .Definition.Examples }}
<blockquote>{{ $e }}</blockquote>
{{- end }}
{{- else }}
<p>No definition found</p>
{{- end }}
{{- if .Definition.Measure }}
<p class="measure">Measure: {{ .Definition.Measure.Measure }}</p>
{{- end }}
{{- if .Definition.Synonyms }}
{{- if .Definition.Synonyms.Synonyms }}
<p class="synonyms">Synonyms: {{ range $i, $w := .Definition.Synonyms.Synonyms }}{{ if $i }}, {{ end }}{{ $w }}{{ end }}</p>
{{- end }}
{{- if .Definition.Synonyms.Antonyms }}
<p class="antonyms">Antonyms: {{ range $i, $w := .Definition.Synonyms.Antonyms }}{{ if $i }}, {{ end }}{{ $w }}{{ end }}</p>
{{- end }}
{{- end }}
</div>
{{- if .Definition.ImageURL }}
<img src="{{ .Definition.ImageURL }}" data-fallback="{{ .Definition.FallbackImageURL }}">
{{- end }}
</section>
`

// fullScreenLayoutTemplate is the immersive single-word view: the
// headword dominates and only the primary sense line is shown. The
// stroke-order widget animates each character client-side.
const fullScreenLayoutTemplate = `<section class="word immersive">
<div class="characters">
{{- range $c := .Characters }}
<div class="stroke-order" data-character="{{ $c }}"></div>
{{- end }}
</div>
{{- if .Pronunciation }}
<p class="pronunciation">/{{ .Pronunciation }}/{{ if .Reading }} [{{ .Reading }}]{{ end }}</p>
{{- end }}
<p class="gloss">{{ .Gloss }}</p>
<span class="counter">{{ inc .Active }} / {{ .Total }}</span>
</section>
`

var presentFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Presenter chooses between the two renderings based on the layout mode.
// It holds no state of its own and displays whatever the snapshot holds,
// including loading and error states verbatim.
type Presenter struct {
	readings *hanviet.Service
}

// NewPresenter creates a Presenter. readings may be nil; then no
// Hán-Việt annotation is ever shown.
func NewPresenter(readings *hanviet.Service) Presenter {
	return Presenter{readings: readings}
}

// Render produces the view for a snapshot.
func (p Presenter) Render(snap Snapshot) (string, error) {
	if snap.Total == 0 {
		return execute(emptyTemplate, nil)
	}
	switch snap.Status {
	case StatusPending:
		return execute(pendingTemplate, map[string]interface{}{"Word": snap.Word})
	case StatusFailed:
		return execute(failedTemplate, map[string]interface{}{"Word": snap.Word, "Error": snap.Error})
	}
	if snap.Definition == nil {
		return execute(pendingTemplate, map[string]interface{}{"Word": snap.Word})
	}

	data := map[string]interface{}{
		"Word":          snap.Word,
		"Active":        snap.Active,
		"Total":         snap.Total,
		"Definition":    snap.Definition,
		"Pronunciation": snap.Definition.Pronunciation,
		"Reading":       p.reading(snap.Word),
	}
	if snap.Layout == db.LayoutFullScreen {
		data["Characters"] = splitCharacters(snap.Word)
		data["Gloss"] = gloss(snap.Definition)
		return execute(fullScreenLayoutTemplate, data)
	}
	return execute(defaultLayoutTemplate, data)
}

func (p Presenter) reading(word string) string {
	if p.readings == nil {
		return ""
	}
	reading, ok := p.readings.WordReading(word)
	if !ok {
		return ""
	}
	return reading
}

// gloss picks the single line the immersive view shows, following the
// same priority order as the full rendering.
func gloss(def *hanzii.WordDefinition) string {
	if len(def.PartOfSpeechSections) > 0 {
		for _, section := range def.PartOfSpeechSections {
			for _, meaning := range section.Meanings {
				if meaning.Mean != "" {
					return meaning.Mean
				}
			}
		}
	}
	if len(def.Meanings) > 0 {
		return def.Meanings[0]
	}
	if def.Definition != "" {
		return def.Definition
	}
	if len(def.Usage) > 0 {
		return def.Usage[0].Meaning
	}
	if len(def.Examples) > 0 {
		return def.Examples[0]
	}
	return ""
}

func execute(text string, data interface{}) (string, error) {
	tmpl, err := template.New("template").Funcs(presentFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func splitCharacters(word string) []string {
	chars := make([]string, 0, len(word)/3)
	for _, r := range word {
		chars = append(chars, string(r))
	}
	return chars
}
