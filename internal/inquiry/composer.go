// Package inquiry builds bounded-context prompts for follow-up questions
// about a translation and normalizes the model's free-text answers.
package inquiry

import (
	"context"
	"strings"

	"github.com/oukeidos/scantranslate/internal/apperrors"
	"github.com/oukeidos/scantranslate/internal/gemini"
	"github.com/oukeidos/scantranslate/internal/i18n"
	"github.com/oukeidos/scantranslate/internal/session"
)

// NoAnswer is returned verbatim when the model reply is empty.
const NoAnswer = "No answer generated."

const preamble = "You are a precise bilingual explainer. Answer briefly but clearly."

// Composer submits follow-up questions against a session's translation
// context. Answers are free text; no structured parsing is applied.
type Composer struct {
	gen gemini.Generator // nil when no API key is configured
}

func NewComposer(gen gemini.Generator) *Composer {
	return &Composer{gen: gen}
}

// Ask validates the question, composes the prompt, and calls the gateway.
// Empty questions and a missing client are rejected synchronously without a
// call and without touching the exchange. Every completed call, answered or
// failed, appends the (user, model) pair to the session's exchange; errors
// are rendered as the answer, never raised.
func (c *Composer) Ask(ctx context.Context, sess *session.Session, focus, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return i18n.Text(sess.UILang(), i18n.AskForQuestion)
	}
	if c.gen == nil {
		return i18n.Text(sess.UILang(), i18n.NoClient)
	}

	prompt := buildPrompt(sess, focus, question)

	answer, err := c.gen.Answer(ctx, prompt)
	if err != nil {
		answer = errorAnswer(err)
	} else {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = NoAnswer
		}
	}

	sess.AppendExchange(session.RoleUser, question)
	sess.AppendExchange(session.RoleModel, answer)
	return answer
}

func buildPrompt(sess *session.Session, focus, question string) string {
	focus = strings.TrimSpace(focus)
	if focus == "" {
		focus = "[None selected]"
	}

	var contextBlock string
	if snap, ok := sess.Context(); ok {
		contextBlock = strings.Join([]string{
			"[Korean]", snap.OriginalText, "",
			"[Translation]", snap.TranslatedText, "",
			"[Target language]", snap.TargetLangName,
		}, "\n")
	}

	return strings.Join([]string{
		preamble,
		"",
		"=== Focused Text ===",
		focus,
		"",
		"=== Full Context ===",
		contextBlock,
		"",
		"=== User Question ===",
		question,
	}, "\n")
}

func errorAnswer(err error) string {
	if _, ok := apperrors.KindOf(err); ok {
		return "AI error: " + apperrors.PublicMessage(err)
	}
	return "Unexpected error while asking AI: " + err.Error()
}
