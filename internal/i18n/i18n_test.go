package i18n

import "testing"

func TestText(t *testing.T) {
	if got := Text("ko", ErrAPIKey); got != "API 키가 설정되지 않아 기능을 실행할 수 없습니다." {
		t.Errorf("Text(ko, ErrAPIKey) = %q", got)
	}
	if got := Text("fil", Saved); got != "Nasave." {
		t.Errorf("Text(fil, Saved) = %q", got)
	}
}

func TestText_FallsBackToEnglish(t *testing.T) {
	if got := Text("de", ErrAPIKey); got != "API key not set." {
		t.Errorf("Text(de, ErrAPIKey) = %q, want English fallback", got)
	}
}

func TestAllKeysPresentInAllLanguages(t *testing.T) {
	keys := []Key{ErrAPIKey, ErrAPI, ErrExtractFail, ErrFileType, AskForQuestion, NoClient, Saved}
	for _, lang := range UILanguages() {
		for _, key := range keys {
			if _, ok := messages[lang][key]; !ok {
				t.Errorf("language %s is missing key %s", lang, key)
			}
		}
	}
}
