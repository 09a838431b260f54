package gemini

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/oukeidos/scantranslate/internal/apperrors"
)

const (
	// DefaultExtractModel performs OCR plus translation on page images.
	DefaultExtractModel = "gemini-2.5-flash"
	// DefaultAnswerModel answers follow-up questions about a translation.
	DefaultAnswerModel = "gemini-2.0-flash"

	// requestTimeout bounds a single generate call. The core contract does not
	// depend on it; it only prevents indefinite hangs.
	requestTimeout = 2 * time.Minute
)

// Client handles communication with the Gemini API.
type Client struct {
	client       *genai.Client
	extractModel *genai.GenerativeModel
	answerModel  *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, extractModel, answerModel string) (*Client, error) {
	// Note: We avoid using option.WithHTTPClient because it interferes with the
	// genai library's internal header injection for API keys, causing 403 errors.
	// Timeouts are enforced via context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if extractModel == "" {
		extractModel = DefaultExtractModel
	}
	if answerModel == "" {
		answerModel = DefaultAnswerModel
	}

	// No ResponseMIMEType: the extraction prompt asks for strict JSON, but
	// fences and prose still appear, and normalization owns that drift.
	return &Client{
		client:       client,
		extractModel: client.GenerativeModel(extractModel),
		answerModel:  client.GenerativeModel(answerModel),
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Generator is the gateway surface for mocking and dependency injection.
type Generator interface {
	// ExtractText sends a prompt plus inline image bytes and returns the raw
	// model text.
	ExtractText(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
	// Answer sends a text-only prompt and returns the raw model text.
	Answer(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements Generator
var _ Generator = (*Client)(nil)

func (c *Client) ExtractText(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.extractModel.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", apperrors.Validation(err)
	}
	return text, nil
}

func (c *Client) Answer(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.answerModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", apperrors.Validation(err)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errNoResponse
	}
	if len(resp.Candidates) == 0 {
		return "", errNoCandidates
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", errNoTextParts
}
