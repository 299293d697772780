package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/spacesedan/commentlens/internal/models"
)

// fakeClassifier answers from a label/score table keyed by cleaned text and
// falls back to a confident middle label.
type fakeClassifier struct {
	mu      sync.Mutex
	byText  map[string]models.ClassificationResult
	err     error
	short   bool
	calls   int
	batches [][]string
}

func (f *fakeClassifier) Classify(_ context.Context, comments []string) ([]models.ClassificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batches = append(f.batches, append([]string(nil), comments...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ClassificationResult, 0, len(comments))
	for _, c := range comments {
		if r, ok := f.byText[c]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, models.ClassificationResult{Label: models.LabelNeutral, Score: 0.9})
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSummarizer struct {
	mu       sync.Mutex
	summary  string
	err      error
	calls    int
	lastText string
	lastMin  int
	lastMax  int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, minWords, maxWords int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastText, f.lastMin, f.lastMax = text, minWords, maxWords
	return f.summary, f.err
}

func (f *fakeSummarizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memorySharedStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	loads int
	err   error
}

func newMemorySharedStore() *memorySharedStore {
	return &memorySharedStore{data: map[string][]byte{}}
}

func (s *memorySharedStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memorySharedStore) Store(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}
