package store

// MockVocabularyStore is a VocabularyLoader for tests.
type MockVocabularyStore struct {
	Vocabulary Vocabulary
	Err        error
	Calls      int
}

// LoadVocabulary returns the configured vocabulary or error.
func (m *MockVocabularyStore) LoadVocabulary() (Vocabulary, error) {
	m.Calls++
	if m.Err != nil {
		return Vocabulary{}, m.Err
	}
	return m.Vocabulary, nil
}
