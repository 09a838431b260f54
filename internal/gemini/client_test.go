package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/oukeidos/scantranslate/internal/apperrors"
)

func TestMockGenerator(t *testing.T) {
	mock := &MockGenerator{ExtractResponse: `{"korean":"안녕","translation":"Hello"}`}

	got, err := mock.ExtractText(context.Background(), "prompt", []byte{0x89}, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if got != mock.ExtractResponse {
		t.Errorf("ExtractText = %q", got)
	}
	if mock.ExtractCalls != 1 || mock.LastMIMEType != "image/png" {
		t.Errorf("mock bookkeeping wrong: calls=%d mime=%q", mock.ExtractCalls, mock.LastMIMEType)
	}
}

func TestResponseText(t *testing.T) {
	t.Run("NilResponse", func(t *testing.T) {
		_, err := responseText(nil)
		if !errors.Is(err, errNoResponse) {
			t.Fatalf("expected nil response error, got: %v", err)
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		if !errors.Is(err, errNoCandidates) {
			t.Fatalf("expected empty candidates error, got: %v", err)
		}
	})

	t.Run("NoParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: nil}},
			},
		}
		_, err := responseText(resp)
		if !errors.Is(err, errNoTextParts) {
			t.Fatalf("expected no text parts error, got: %v", err)
		}
	})

	t.Run("CombinesTextParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Text(`{"korean":"안녕",`),
					genai.Text(`"translation":"Hello"}`),
				}}},
			},
		}
		got, err := responseText(resp)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"korean":"안녕","translation":"Hello"}`
		if got != want {
			t.Fatalf("responseText = %q, want %q", got, want)
		}
	})

	t.Run("SkipsNonTextParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "application/octet-stream", Data: []byte{0x01}},
					genai.Text("hello"),
				}}},
			},
		}
		got, err := responseText(resp)
		if err != nil || got != "hello" {
			t.Fatalf("responseText = (%q, %v), want (hello, nil)", got, err)
		}
	})
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want apperrors.Kind
	}{
		{"Auth401", http.StatusUnauthorized, apperrors.KindAuth},
		{"Auth403", http.StatusForbidden, apperrors.KindAuth},
		{"RateLimit", http.StatusTooManyRequests, apperrors.KindRateLimit},
		{"BadRequest", http.StatusBadRequest, apperrors.KindBadRequest},
		{"NotFound", http.StatusNotFound, apperrors.KindBadRequest},
		{"ServerError", http.StatusInternalServerError, apperrors.KindTransient},
		{"Unavailable", http.StatusServiceUnavailable, apperrors.KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyGeminiError(&googleapi.Error{Code: tt.code})
			kind, ok := apperrors.KindOf(err)
			if !ok || kind != tt.want {
				t.Fatalf("classify(%d) kind = (%q, %v), want %q", tt.code, kind, ok, tt.want)
			}
		})
	}

	t.Run("NetworkError", func(t *testing.T) {
		err := classifyGeminiError(errors.New("dial tcp: i/o timeout"))
		kind, ok := apperrors.KindOf(err)
		if !ok || kind != apperrors.KindTransient {
			t.Fatalf("network error kind = (%q, %v), want transient", kind, ok)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if classifyGeminiError(nil) != nil {
			t.Fatal("classify(nil) should be nil")
		}
	})
}
