// Package i18n holds the localized messages the core surfaces in place of
// results. Presentation-layer strings live with the UI, not here.
package i18n

// Key identifies a localized message.
type Key string

const (
	ErrAPIKey      Key = "error_api_key"
	ErrAPI         Key = "error_api"
	ErrExtractFail Key = "error_extract_fail"
	ErrFileType    Key = "error_file_type"
	AskForQuestion Key = "ask_for_question"
	NoClient       Key = "no_client"
	Saved          Key = "saved"
)

const fallbackLang = "en"

var messages = map[string]map[Key]string{
	"ko": {
		ErrAPIKey:      "API 키가 설정되지 않아 기능을 실행할 수 없습니다.",
		ErrAPI:         "Gemini API 오류:",
		ErrExtractFail: "OCR 및 번역에 실패했습니다.",
		ErrFileType:    "지원하지 않는 파일 형식입니다. JPG, PNG 또는 PDF를 업로드하세요.",
		AskForQuestion: "질문을 입력해주세요. (예: 이 문장의 의미를 쉽게 설명해 주세요.)",
		NoClient:       "Gemini 클라이언트가 초기화되지 않았습니다. GEMINI_API_KEY를 확인하세요.",
		Saved:          "저장되었습니다.",
	},
	"en": {
		ErrAPIKey:      "API key not set.",
		ErrAPI:         "Gemini API Error:",
		ErrExtractFail: "OCR and translation failed.",
		ErrFileType:    "Unsupported file type. Upload a JPG, PNG, or PDF.",
		AskForQuestion: "Please enter a question. (e.g. Explain this sentence in simple terms.)",
		NoClient:       "Gemini client is not initialized. Check GEMINI_API_KEY.",
		Saved:          "Saved.",
	},
	"fil": {
		ErrAPIKey:      "Walang API key.",
		ErrAPI:         "Error sa Gemini API:",
		ErrExtractFail: "Bigo ang OCR at pagsasalin.",
		ErrFileType:    "Hindi suportadong uri ng file. Mag-upload ng JPG, PNG, o PDF.",
		AskForQuestion: "Maglagay ng tanong. (hal. Ipaliwanag ang pangungusap na ito.)",
		NoClient:       "Hindi pa nasisimulan ang Gemini client. Suriin ang GEMINI_API_KEY.",
		Saved:          "Nasave.",
	},
}

// Text returns the message for key in the given UI language, falling back to
// English for unknown languages or missing entries.
func Text(uiLang string, key Key) string {
	if table, ok := messages[uiLang]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	return messages[fallbackLang][key]
}

// UILanguages lists the UI languages with message tables.
func UILanguages() []string {
	return []string{"ko", "en", "fil"}
}
