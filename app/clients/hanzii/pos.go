package hanzii

var posLabels = map[string]map[string]string{
	"en": {
		"adj":     "adjective",
		"adv":     "adverb",
		"n":       "noun",
		"v":       "verb",
		"prep":    "preposition",
		"intj":    "interjection",
		"numb":    "numeral",
		"num":     "numeral",
		"pro":     "pronoun",
		"pron":    "pronoun",
		"conj":    "conjunction",
		"part":    "particle",
		"class":   "classifier",
		"measure": "measure",
		"av":      "auxiliary verb",
		"aux":     "auxiliary",
		"sv":      "separable verb",
		"mpart":   "modal particle",
		"pref":    "prefix",
		"suff":    "suffix",
		"onom":    "onomatopoeia",
		"dist":    "distinguishing word",
		"locativ": "locative word",
		"nlocal":  "local noun",
		"time":    "time word",
		"stt":     "state word",
		"punct":   "punctuation",
	},
	"vi": {
		"adj":     "Tính từ",
		"adv":     "Phó từ",
		"n":       "Danh từ",
		"v":       "Động từ",
		"prep":    "Giới từ",
		"intj":    "Thán từ",
		"numb":    "Số từ",
		"num":     "Số từ",
		"pro":     "Đại từ",
		"pron":    "Đại từ",
		"conj":    "Liên từ",
		"part":    "Trợ từ",
		"class":   "Từ chỉ số lượng",
		"measure": "Lượng từ",
		"av":      "Trợ động từ",
		"aux":     "Trợ từ",
		"sv":      "Động từ li hợp",
		"mpart":   "Trợ từ ngữ khí",
		"pref":    "Tiền tố",
		"suff":    "Hậu tố",
		"onom":    "Từ tượng thanh",
		"dist":    "Từ phân loại",
		"locativ": "Từ mượn",
		"nlocal":  "Danh từ địa phương",
		"time":    "Từ chỉ thời gian",
		"stt":     "Từ chỉ trạng thái",
		"punct":   "Dấu câu",
	},
}

// PartOfSpeechLabel returns the localized name for a grammatical code.
// Unknown codes are returned unchanged.
func PartOfSpeechLabel(kind string, language string) string {
	labels, ok := posLabels[language]
	if !ok {
		labels = posLabels["en"]
	}
	if label, ok := labels[kind]; ok {
		return label
	}
	return kind
}
