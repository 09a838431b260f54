package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oukeidos/scantranslate/internal/cache"
	"github.com/oukeidos/scantranslate/internal/extract"
	"github.com/oukeidos/scantranslate/internal/gemini"
	"github.com/oukeidos/scantranslate/internal/inquiry"
	"github.com/oukeidos/scantranslate/internal/render"
	"github.com/oukeidos/scantranslate/internal/session"
)

var pngUpload = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

var pdfUpload = []byte("%PDF-1.4\n1 0 obj<</Type/Catalog>>endobj\ntrailer<</Root 1 0 R>>\n%%EOF")

type testServer struct {
	*Server
	gen      *gemini.MockGenerator
	renderer *render.MockRenderer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gen := &gemini.MockGenerator{
		ExtractResponse: `{"korean":"안녕하세요","translation":"Hello","confidence":95}`,
		AnswerResponse:  "It is a greeting.",
	}
	renderer := &render.MockRenderer{Pages: 3, PNG: pngUpload}
	srv := NewServer(
		session.NewManager(),
		extract.NewService(gen, cache.New[extract.Result](0)),
		inquiry.NewComposer(gen),
		renderer,
		Options{},
	)
	return &testServer{Server: srv, gen: gen, renderer: renderer}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.routes().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return body.Data
}

func (ts *testServer) createSession(t *testing.T, uiLang string) string {
	t.Helper()
	payload := "{}"
	if uiLang != "" {
		payload = `{"ui_lang":"` + uiLang + `"}`
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := ts.do(t, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := decodeData(t, rec)["session_id"].(string)
	if id == "" {
		t.Fatalf("no session_id in %s", rec.Body.String())
	}
	return id
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(file); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateSession_ReturnsUsableID(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session_id %q is not a UUID: %v", id, err)
	}

	// The returned id addresses the session on every other route.
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d for id %q", rec.Code, id)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["service"] != "scantranslate" {
		t.Errorf("service = %v", data["service"])
	}
	if data["configured"] != true {
		t.Errorf("configured = %v", data["configured"])
	}
}

func TestLanguages(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/languages?ui_lang=en", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	targets, _ := data["targets"].([]any)
	if len(targets) != 3 {
		t.Fatalf("targets = %v", data["targets"])
	}
}

func TestExtract_Image(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "en"}, "page.png", "image/png", pngUpload)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := ts.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["original_text"] != "안녕하세요" || data["translated_text"] != "Hello" {
		t.Errorf("result = %v", data)
	}
	if data["confidence"] != float64(95) {
		t.Errorf("confidence = %v", data["confidence"])
	}
	if sentences, _ := data["sentences"].([]any); len(sentences) != 1 || sentences[0] != "Hello" {
		t.Errorf("sentences = %v", data["sentences"])
	}
	if ts.renderer.RenderCalls != 0 {
		t.Errorf("image upload should not touch the renderer")
	}

	// The extraction lands in the session history.
	rec = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/history", nil))
	items, _ := decodeData(t, rec)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("history = %v", items)
	}
}

func TestExtract_PDFRendersRequestedPage(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "")

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "fil", "page": "2"}, "doc.pdf", "application/pdf", pdfUpload)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := ts.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["page_count"] != float64(3) || data["page"] != float64(2) {
		t.Errorf("paging = %v", data)
	}
	if ts.renderer.RenderCalls != 1 || ts.renderer.LastPage != 2 {
		t.Errorf("renderer calls = %d last page = %d", ts.renderer.RenderCalls, ts.renderer.LastPage)
	}
	if ts.gen.LastMIMEType != "image/png" {
		t.Errorf("extraction should run on the rendered page, got %q", ts.gen.LastMIMEType)
	}
}

func TestExtract_PDFPageOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "")

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "en", "page": "9"}, "doc.pdf", "application/pdf", pdfUpload)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := ts.do(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	// The rejection message follows the session's UI language.
	cases := []struct {
		uiLang string
		want   string
	}{
		{"en", "Unsupported file type. Upload a JPG, PNG, or PDF."},
		{"ko", "지원하지 않는 파일 형식입니다. JPG, PNG 또는 PDF를 업로드하세요."},
	}
	for _, tc := range cases {
		t.Run(tc.uiLang, func(t *testing.T) {
			ts := newTestServer(t)
			id := ts.createSession(t, tc.uiLang)

			body, ctype := multipartUpload(t, map[string]string{"target_lang": "en"}, "doc.ps", "application/postscript", []byte("%!PS-Adobe-3.0\n"))
			req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
			req.Header.Set(echo.HeaderContentType, ctype)

			rec := ts.do(t, req)
			if rec.Code != http.StatusUnsupportedMediaType {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Message != tc.want {
				t.Errorf("message = %q, want %q", resp.Message, tc.want)
			}
		})
	}
}

func TestExtract_UnknownTargetLanguage(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "de"}, "page.png", "image/png", pngUpload)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := ts.do(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExtract_GatewayFailureIsStillOK(t *testing.T) {
	ts := newTestServer(t)
	ts.gen.Error = errors.New("model asleep")
	id := ts.createSession(t, "en")

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "en"}, "page.png", "image/png", pngUpload)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	rec := ts.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	text, _ := data["original_text"].(string)
	if text == "" {
		t.Fatalf("failure text should be embedded in the result: %v", data)
	}
}

func TestSaveContext(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	// Without an extraction there is nothing to edit.
	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/context", strings.NewReader(`{"original_text":"x","translated_text":"y"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := ts.do(t, req); rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "en"}, "page.png", "image/png", pngUpload)
	ereq := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	ereq.Header.Set(echo.HeaderContentType, ctype)
	ts.do(t, ereq)

	req = httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/context", strings.NewReader(`{"original_text":"고침","translated_text":"fixed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := ts.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	ctx, _ := data["context"].(map[string]any)
	if ctx["original_text"] != "고침" || ctx["translated_text"] != "fixed" {
		t.Errorf("context = %v", ctx)
	}
}

func TestInquiry(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/inquiries", strings.NewReader(`{"question":"What does it mean?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := ts.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["answer"] != "It is a greeting." {
		t.Errorf("answer = %v", data["answer"])
	}
	exchange, _ := data["exchange"].([]any)
	if len(exchange) != 2 {
		t.Errorf("exchange = %v", exchange)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "en")

	// No context yet.
	if rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/export?format=txt", nil)); rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}

	body, ctype := multipartUpload(t, map[string]string{"target_lang": "en"}, "page.png", "image/png", pngUpload)
	ereq := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", body)
	ereq.Header.Set(echo.HeaderContentType, ctype)
	ts.do(t, ereq)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/export?format=txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "안녕하세요\n\n---\n\nHello" {
		t.Errorf("txt body = %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "translation_en.txt") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	if rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/export?format=wav", nil)); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/sessions/nope/history", nil),
		httptest.NewRequest(http.MethodGet, "/api/sessions/nope/export?format=txt", nil),
	} {
		if rec := ts.do(t, req); rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d", req.URL.Path, rec.Code)
		}
	}
}
