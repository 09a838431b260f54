package extract

import (
	"context"

	"github.com/oukeidos/scantranslate/internal/apperrors"
	"github.com/oukeidos/scantranslate/internal/cache"
	"github.com/oukeidos/scantranslate/internal/fingerprint"
	"github.com/oukeidos/scantranslate/internal/gemini"
	"github.com/oukeidos/scantranslate/internal/i18n"
	"github.com/oukeidos/scantranslate/internal/logger"
)

// Service runs the extraction flow: media gate, fingerprint, cache lookup,
// gateway call, normalization. Gateway failures never escape as errors; they
// come back as results carrying the failure message, so a repeated submission
// is the only retry path.
type Service struct {
	gen   gemini.Generator // nil when no API key is configured
	cache *cache.Store[Result]
}

func NewService(gen gemini.Generator, store *cache.Store[Result]) *Service {
	if store == nil {
		store = cache.New[Result](0)
	}
	return &Service{gen: gen, cache: store}
}

// Configured reports whether a gateway client is available.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// Extract returns the normalized record for req, serving repeats of the same
// (content, target language) pair from the cache. The only error it returns
// is the synchronous unsupported-media rejection; everything downstream is
// embedded into the result per the error-surfacing strategy.
func (s *Service) Extract(ctx context.Context, req Request, uiLang string) (Result, error) {
	if s.gen == nil {
		// Same error-surfacing path as gateway failures, but never cached:
		// a later configured run must not see the stale message.
		return Result{OriginalText: failureMessage(apperrors.Config(nil), uiLang)}, nil
	}

	mime, err := ResolveMIME(req.MIMEType, req.Content)
	if err != nil {
		return Result{}, err
	}

	fp := fingerprint.Bytes(req.Content)
	result := s.cache.GetOrCompute(fp, req.TargetLangName, func() Result {
		return s.compute(ctx, req, mime, uiLang, fp)
	})
	return result, nil
}

func (s *Service) compute(ctx context.Context, req Request, mime, uiLang, fp string) Result {
	raw, err := s.gen.ExtractText(ctx, buildPrompt(req.TargetLangName), req.Content, mime)
	if err != nil {
		logger.Warn("extraction call failed",
			"fingerprint", fp,
			"target_lang", req.TargetLangName,
			"kind", kindLabel(err),
		)
		return Result{OriginalText: failureMessage(err, uiLang)}
	}

	result := Normalize(raw)
	if result.TranslatedText == "" {
		// Parse degradation is silent; the caller only sees the empty field.
		logger.Debug("normalization found no translation", "fingerprint", fp)
	}
	return result
}

func kindLabel(err error) string {
	if kind, ok := apperrors.KindOf(err); ok {
		return string(kind)
	}
	return "unknown"
}

func failureMessage(err error, uiLang string) string {
	if apperrors.IsConfig(err) {
		return i18n.Text(uiLang, i18n.ErrAPIKey)
	}
	if _, ok := apperrors.KindOf(err); ok {
		return i18n.Text(uiLang, i18n.ErrAPI) + " " + apperrors.PublicMessage(err)
	}
	return i18n.Text(uiLang, i18n.ErrExtractFail) + " " + err.Error()
}
