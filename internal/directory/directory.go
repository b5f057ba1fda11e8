package directory

import "ExpoScreener/internal/model"

// Directory lists candidate ticker symbols for the screener to scan.
type Directory interface {
	Symbols() ([]model.CandidateSymbol, error)
	Name() string
}

// MockDirectory returns a fixed candidate list for development and testing.
type MockDirectory struct {
	Candidates []model.CandidateSymbol
	Err        error
}

func (m *MockDirectory) Name() string { return "mock" }

func (m *MockDirectory) Symbols() ([]model.CandidateSymbol, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}
