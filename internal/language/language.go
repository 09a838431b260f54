package language

import "sort"

// Language represents a supported target language with its display metadata.
type Language struct {
	Code string // key used in requests and cache identity
	Name string // name passed to the model ("translate to <Name>")
	Flag string

	// Display names keyed by UI language.
	DisplayKo  string
	DisplayEn  string
	DisplayFil string
}

// Languages is a map of supported target languages code -> Language.
// The source side is always Korean; Korean itself stays selectable so a page
// can be re-extracted without translation drift.
var Languages = map[string]Language{
	"ko":  {Code: "ko", Name: "Korean", Flag: "🇰🇷", DisplayKo: "한국어", DisplayEn: "Korean", DisplayFil: "Koreano"},
	"en":  {Code: "en", Name: "English", Flag: "🇺🇸", DisplayKo: "영어", DisplayEn: "English", DisplayFil: "Ingles"},
	"fil": {Code: "fil", Name: "Filipino (Tagalog)", Flag: "🇵🇭", DisplayKo: "필리핀어", DisplayEn: "Filipino", DisplayFil: "Filipino"},
}

// Get returns the language for a strict code match.
func Get(code string) (Language, bool) {
	lang, ok := Languages[code]
	return lang, ok
}

// DisplayName returns the display name of l in the given UI language,
// falling back to English.
func (l Language) DisplayName(uiLang string) string {
	switch uiLang {
	case "ko":
		return l.DisplayKo
	case "fil":
		return l.DisplayFil
	default:
		return l.DisplayEn
	}
}

// Supported returns the supported languages sorted by Name.
func Supported() []Language {
	entries := make([]Language, 0, len(Languages))
	for _, v := range Languages {
		entries = append(entries, v)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
