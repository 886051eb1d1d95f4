package slideshow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/hanviet"
)

func getReadings(t *testing.T) *hanviet.Service {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"宝": "bảo", "贝": "bối"}`))
	}))
	t.Cleanup(server.Close)
	service := hanviet.NewServiceWithURL(db.NewInMemoryStorage(), server.URL)
	service.Initialize(context.Background())
	return service
}

func readySnapshot(def *hanzii.WordDefinition) Snapshot {
	return Snapshot{
		Word:       "宝贝",
		Status:     StatusReady,
		Definition: def,
		Active:     0,
		Total:      3,
		Language:   "vi",
		Layout:     db.LayoutDefault,
	}
}

func TestRenderStates(t *testing.T) {
	presenter := NewPresenter(nil)

	t.Run("empty show", func(t *testing.T) {
		out, err := presenter.Render(Snapshot{})
		require.NoError(t, err)
		assert.Contains(t, out, "No Words Found")
	})

	t.Run("pending", func(t *testing.T) {
		out, err := presenter.Render(Snapshot{Word: "宝贝", Status: StatusPending, Total: 1})
		require.NoError(t, err)
		assert.Contains(t, out, "宝贝")
		assert.Contains(t, out, "Loading definition")
	})

	t.Run("failed", func(t *testing.T) {
		out, err := presenter.Render(Snapshot{
			Word: "宝贝", Status: StatusFailed, Error: "failed to load definition", Total: 1,
		})
		require.NoError(t, err)
		assert.Contains(t, out, "failed to load definition")
	})

	t.Run("ready without definition falls back to pending", func(t *testing.T) {
		out, err := presenter.Render(Snapshot{Word: "宝贝", Status: StatusReady, Total: 1})
		require.NoError(t, err)
		assert.Contains(t, out, "Loading definition")
	})
}

func TestRenderDefaultLayout(t *testing.T) {
	presenter := NewPresenter(nil)

	t.Run("part of speech sections win", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			Pronunciation: "bǎo bèi",
			Definition:    "fallback line",
			Meanings:      []string{"flat meaning"},
			PartOfSpeechSections: []hanzii.PartOfSpeechSection{
				{
					Kind:      "n",
					KindLabel: "noun",
					Meanings: []hanzii.Meaning{
						{
							Mean:    "darling",
							Explain: "term of endearment",
							Examples: []hanzii.UsageExample{
								{Chinese: "我的宝贝", Meaning: "my darling", Pinyin: "wǒ de bǎo bèi"},
							},
						},
					},
				},
			},
		}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "<h3>noun</h3>")
		assert.Contains(t, out, "darling")
		assert.Contains(t, out, "term of endearment")
		assert.Contains(t, out, "我的宝贝")
		assert.NotContains(t, out, "flat meaning")
		assert.NotContains(t, out, "fallback line")
	})

	t.Run("meanings beat the flat definition", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			Meanings:   []string{"one", "two"},
			Definition: "fallback line",
		}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "<p>one</p>")
		assert.Contains(t, out, "<p>two</p>")
		assert.NotContains(t, out, "fallback line")
	})

	t.Run("definition beats usage", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			Definition: "fallback line",
			Usage:      []hanzii.UsageExample{{Chinese: "好人", Meaning: "good person"}},
		}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "fallback line")
		assert.NotContains(t, out, "好人")
	})

	t.Run("bare examples as a last resort", func(t *testing.T) {
		def := &hanzii.WordDefinition{Examples: []string{"好人"}}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "好人")
	})

	t.Run("nothing at all", func(t *testing.T) {
		out, err := presenter.Render(readySnapshot(&hanzii.WordDefinition{}))
		require.NoError(t, err)
		assert.Contains(t, out, "No definition found")
	})

	t.Run("counter is one-based", func(t *testing.T) {
		snap := readySnapshot(&hanzii.WordDefinition{Definition: "x"})
		snap.Active = 1
		out, err := presenter.Render(snap)
		require.NoError(t, err)
		assert.Contains(t, out, "2 / 3")
	})

	t.Run("measure and synonyms", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			Definition: "x",
			Measure:    &hanzii.MeasureInfo{Measure: "个"},
			Synonyms:   &hanzii.SynonymInfo{Synonyms: []string{"宝物", "珍宝"}, Antonyms: []string{"废物"}},
		}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "Measure: 个")
		assert.Contains(t, out, "Synonyms: 宝物, 珍宝")
		assert.Contains(t, out, "Antonyms: 废物")
	})

	t.Run("image with fallback attribute", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			Definition:       "x",
			ImageURL:         "https://assets.hanzii.net/img_word/abc_h.jpg",
			FallbackImageURL: "https://th.bing.com/th?q=x",
		}
		out, err := presenter.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, `src="https://assets.hanzii.net/img_word/abc_h.jpg"`)
		assert.Contains(t, out, `data-fallback="https://th.bing.com/th?q=x"`)
	})

	t.Run("reading annotation", func(t *testing.T) {
		withReadings := NewPresenter(getReadings(t))
		def := &hanzii.WordDefinition{Pronunciation: "bǎo bèi", Definition: "x"}
		out, err := withReadings.Render(readySnapshot(def))
		require.NoError(t, err)
		assert.Contains(t, out, "/bǎo bèi/ [bảo bối]")
	})
}

func TestRenderFullScreenLayout(t *testing.T) {
	presenter := NewPresenter(nil)

	def := &hanzii.WordDefinition{
		Pronunciation: "bǎo bèi",
		PartOfSpeechSections: []hanzii.PartOfSpeechSection{
			{Kind: "n", KindLabel: "noun", Meanings: []hanzii.Meaning{{Mean: "darling"}}},
		},
		Meanings: []string{"darling"},
	}
	snap := readySnapshot(def)
	snap.Layout = db.LayoutFullScreen

	out, err := presenter.Render(snap)
	require.NoError(t, err)
	// one stroke-order widget per character
	assert.Contains(t, out, `data-character="宝"`)
	assert.Contains(t, out, `data-character="贝"`)
	assert.Contains(t, out, `<p class="gloss">darling</p>`)
	assert.Contains(t, out, "1 / 3")
	// the immersive view shows only the primary sense
	assert.NotContains(t, out, "<h3>noun</h3>")
}

func TestGloss(t *testing.T) {
	t.Run("section mean wins", func(t *testing.T) {
		def := &hanzii.WordDefinition{
			PartOfSpeechSections: []hanzii.PartOfSpeechSection{
				{Meanings: []hanzii.Meaning{{Mean: ""}, {Mean: "darling"}}},
			},
			Meanings: []string{"flat"},
		}
		assert.Equal(t, "darling", gloss(def))
	})
	t.Run("first meaning", func(t *testing.T) {
		assert.Equal(t, "one", gloss(&hanzii.WordDefinition{Meanings: []string{"one", "two"}}))
	})
	t.Run("usage translation", func(t *testing.T) {
		def := &hanzii.WordDefinition{Usage: []hanzii.UsageExample{{Chinese: "好人", Meaning: "good person"}}}
		assert.Equal(t, "good person", gloss(def))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", gloss(&hanzii.WordDefinition{}))
	})
}
