package extract

// Result is the normalized outcome of one extraction. Both text fields are
// always non-nil strings so downstream consumers never branch on absence;
// Confidence is nil when the model did not report a usable number.
type Result struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	Confidence     *int   `json:"confidence,omitempty"`
}

// Request describes one extraction submission. Immutable once constructed.
// Cache identity is hash(Content) + TargetLangName; MIMEType must match the
// bytes for a correct call but is not part of the key.
type Request struct {
	Content        []byte
	MIMEType       string
	TargetLangName string
}
