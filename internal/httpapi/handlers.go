package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oukeidos/scantranslate/internal/apperrors"
	"github.com/oukeidos/scantranslate/internal/export"
	"github.com/oukeidos/scantranslate/internal/extract"
	"github.com/oukeidos/scantranslate/internal/i18n"
	"github.com/oukeidos/scantranslate/internal/language"
	"github.com/oukeidos/scantranslate/internal/logger"
	"github.com/oukeidos/scantranslate/internal/render"
	"github.com/oukeidos/scantranslate/internal/session"
	"github.com/oukeidos/scantranslate/internal/version"
)

type languageItem struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Flag    string `json:"flag"`
	Display string `json:"display"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	UILang    string `json:"ui_lang"`
}

type extractResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	Confidence     *int     `json:"confidence,omitempty"`
	Sentences      []string `json:"sentences,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	Page           int      `json:"page"`
}

type contextRequest struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
}

type inquiryRequest struct {
	Focus    string `json:"focus"`
	Question string `json:"question"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service":    "scantranslate",
		"version":    version.Version,
		"configured": s.extractor.Configured(),
		"time":       time.Now().UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	uiLang := strings.TrimSpace(c.QueryParam("ui_lang"))
	if uiLang == "" {
		uiLang = "ko"
	}

	langs := language.Supported()
	items := make([]languageItem, 0, len(langs))
	for _, l := range langs {
		items = append(items, languageItem{
			Code:    l.Code,
			Name:    l.Name,
			Flag:    l.Flag,
			Display: l.DisplayName(uiLang),
		})
	}
	return success(c, map[string]any{
		"targets": items,
		"ui":      i18n.UILanguages(),
	})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var body struct {
		UILang string `json:"ui_lang"`
	}
	// Body is optional; an empty request creates a Korean-UI session.
	_ = c.Bind(&body)

	sess := s.sessions.Create()
	if lang := strings.TrimSpace(body.UILang); lang != "" {
		sess.SetUILang(lang)
	}
	logger.Debug("session created", "session_id", sess.ID)
	return successWithStatus(c, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		UILang:    sess.UILang(),
	})
}

// session resolves the :id path parameter. The bool reports whether the
// caller may proceed; on false the response is already written.
func (s *Server) session(c echo.Context) (*session.Session, bool) {
	id := strings.TrimSpace(c.Param("id"))
	sess, ok := s.sessions.Get(id)
	if !ok {
		_ = failNotFound(c, "Session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleExtract(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return nil
	}

	lang, ok := language.Get(strings.TrimSpace(c.FormValue("target_lang")))
	if !ok {
		return failValidation(c, map[string]string{"target_lang": "must be a supported language code"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return failValidation(c, map[string]string{"file": "is required"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return failValidation(c, map[string]string{"file": "is empty"})
	}

	mime, err := extract.SniffUpload(fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return fail(c, http.StatusUnsupportedMediaType, unsupportedMessage(err, sess.UILang()), nil)
	}

	page := 0
	pageCount := 0
	if mime == extract.MIMEPDF {
		if raw := strings.TrimSpace(c.FormValue("page")); raw != "" {
			page, err = strconv.Atoi(raw)
			if err != nil || page < 0 {
				return failValidation(c, map[string]string{"page": "must be a non-negative integer"})
			}
		}
		pageCount, err = s.renderer.PageCount(data)
		if err != nil {
			return fail(c, http.StatusUnsupportedMediaType, "Could not open the PDF document.", nil)
		}
		if page >= pageCount {
			return failValidation(c, map[string]string{
				"page": fmt.Sprintf("must be below the page count (%d)", pageCount),
			})
		}
		data, err = s.renderer.RenderPage(data, page, render.DefaultScale)
		if err != nil {
			logger.Error("page render failed", "session_id", sess.ID, "page", page, "error", err)
			return fmt.Errorf("render page: %w", err)
		}
		mime = extract.MIMEPNG
	}

	res, err := s.extractor.Extract(c.Request().Context(), extract.Request{
		Content:        data,
		MIMEType:       mime,
		TargetLangName: lang.Name,
	}, sess.UILang())
	if err != nil {
		return fail(c, http.StatusUnsupportedMediaType, unsupportedMessage(err, sess.UILang()), nil)
	}

	sess.ApplyExtraction(res, lang)

	return success(c, extractResponse{
		OriginalText:   res.OriginalText,
		TranslatedText: res.TranslatedText,
		Confidence:     res.Confidence,
		// The focus picker offers sentences of the translation.
		Sentences: session.SplitSentences(res.TranslatedText),
		PageCount: pageCount,
		Page:      page,
	})
}

func (s *Server) handleSaveContext(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return nil
	}

	var body contextRequest
	if err := c.Bind(&body); err != nil {
		return failValidation(c, map[string]string{"body": "must be JSON"})
	}

	if _, hasContext := sess.Context(); !hasContext {
		return fail(c, http.StatusConflict, "No translation result to edit", nil)
	}

	sess.SaveEdits(body.OriginalText, body.TranslatedText)
	snap, _ := sess.Context()
	return success(c, map[string]any{
		"message": i18n.Text(sess.UILang(), i18n.Saved),
		"context": snap,
	})
}

func (s *Server) handleInquiry(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return nil
	}

	var body inquiryRequest
	if err := c.Bind(&body); err != nil {
		return failValidation(c, map[string]string{"body": "must be JSON"})
	}

	answer := s.composer.Ask(c.Request().Context(), sess, body.Focus, body.Question)
	return success(c, map[string]any{
		"answer":   answer,
		"exchange": sess.Exchange(),
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return nil
	}
	return success(c, map[string]any{
		"items": sess.History(),
	})
}

func (s *Server) handleExport(c echo.Context) error {
	sess, ok := s.session(c)
	if !ok {
		return nil
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return failValidation(c, map[string]string{"format": "must be one of txt, csv, docx, xlsx"})
	}

	snap, hasContext := sess.Context()
	if !hasContext {
		return fail(c, http.StatusConflict, "No translation result to export", nil)
	}

	b, err := export.Write(format, export.Pair{
		Original:   snap.OriginalText,
		Translated: snap.TranslatedText,
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	filename := export.Filename(format, codeForName(snap.TargetLangName))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.MIMEType(), b)
}

// unsupportedMessage localizes the media-gate rejection for the session's
// UI language; other kinds keep their safe message.
func unsupportedMessage(err error, uiLang string) string {
	if apperrors.IsUnsupported(err) {
		return i18n.Text(uiLang, i18n.ErrFileType)
	}
	return apperrors.PublicMessage(err)
}

func codeForName(name string) string {
	for _, l := range language.Supported() {
		if l.Name == name {
			return l.Code
		}
	}
	return ""
}
