// Package session holds the per-user state of the tool: the current
// bilingual context, the bounded extraction history, and the inquiry
// exchange. Sessions are never shared; every piece of state here is scoped
// to one session and lives only for the life of the process.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/oukeidos/scantranslate/internal/extract"
	"github.com/oukeidos/scantranslate/internal/language"
)

// MaxHistory bounds the extraction history: newest first, oldest evicted.
const MaxHistory = 5

// Role identifies the author of an exchange message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of the inquiry exchange.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Context is the read-mostly snapshot follow-up questions are answered
// against. It is superseded on each new extraction and rewritten only by an
// explicit save.
type Context struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	TargetLangName string `json:"target_lang_name"`
}

// HistoryEntry is a frozen copy of a past extraction plus display metadata.
type HistoryEntry struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	LangName       string `json:"lang_name"`
	LangFlag       string `json:"lang_flag"`
	Confidence     *int   `json:"confidence,omitempty"`
}

// Session owns one user's state. Methods are safe for concurrent use; the
// usual access pattern is still one request at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	uiLang   string
	context  *Context
	history  []HistoryEntry
	exchange []Message
}

func New() *Session {
	return &Session{
		ID:     uuid.NewString(),
		uiLang: "ko",
	}
}

// UILang returns the UI language used to localize messages for this session.
func (s *Session) UILang() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uiLang
}

func (s *Session) SetUILang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uiLang = lang
}

// ApplyExtraction supersedes the context with a fresh extraction and pushes
// a frozen copy onto the history, evicting the oldest entry past MaxHistory.
func (s *Session) ApplyExtraction(res extract.Result, lang language.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.context = &Context{
		OriginalText:   res.OriginalText,
		TranslatedText: res.TranslatedText,
		TargetLangName: lang.Name,
	}

	entry := HistoryEntry{
		OriginalText:   res.OriginalText,
		TranslatedText: res.TranslatedText,
		LangName:       lang.Name,
		LangFlag:       lang.Flag,
		Confidence:     res.Confidence,
	}
	s.history = append([]HistoryEntry{entry}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
}

// SaveEdits rewrites the context with user edits and mirrors them into the
// head of history. This is the only write path from context to history;
// older entries are never touched.
func (s *Session) SaveEdits(original, translated string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.context == nil {
		return
	}
	s.context.OriginalText = original
	s.context.TranslatedText = translated
	if len(s.history) > 0 {
		s.history[0].OriginalText = original
		s.history[0].TranslatedText = translated
	}
}

// Context returns a copy of the current translation context.
func (s *Session) Context() (Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.context == nil {
		return Context{}, false
	}
	return *s.context, true
}

// History returns the entries newest first.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// AppendExchange appends one message to the inquiry exchange. The exchange
// is append-only; it is never deduplicated or summarized.
func (s *Session) AppendExchange(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchange = append(s.exchange, Message{Role: role, Text: text})
}

// Exchange returns the inquiry messages in order.
func (s *Session) Exchange() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.exchange))
	copy(out, s.exchange)
	return out
}
