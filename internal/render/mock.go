package render

// MockRenderer is a test double for PageRenderer.
type MockRenderer struct {
	Pages int
	PNG   []byte
	Err   error

	CountCalls  int
	RenderCalls int
	LastPage    int
	LastScale   float64
}

var _ PageRenderer = (*MockRenderer)(nil)

func (m *MockRenderer) PageCount(pdf []byte) (int, error) {
	m.CountCalls++
	return m.Pages, m.Err
}

func (m *MockRenderer) RenderPage(pdf []byte, pageIndex int, scale float64) ([]byte, error) {
	m.RenderCalls++
	m.LastPage = pageIndex
	m.LastScale = scale
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PNG, nil
}
