package gemini

import "context"

// MockGenerator for testing
type MockGenerator struct {
	ExtractResponse string
	AnswerResponse  string
	Error           error

	ExtractCalls int
	AnswerCalls  int
	LastPrompt   string
	LastMIMEType string
	LastData     []byte
}

func (m *MockGenerator) ExtractText(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	m.ExtractCalls++
	m.LastPrompt = prompt
	m.LastData = data
	m.LastMIMEType = mimeType
	return m.ExtractResponse, m.Error
}

func (m *MockGenerator) Answer(ctx context.Context, prompt string) (string, error) {
	m.AnswerCalls++
	m.LastPrompt = prompt
	return m.AnswerResponse, m.Error
}
