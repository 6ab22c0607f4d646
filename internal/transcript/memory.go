package transcript

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.Mutex
	size  int
	chats map[string][]Entry
}

func NewMemoryStore(size int) Store {
	if size <= 0 {
		size = 20
	}
	return &memoryStore{size: size, chats: make(map[string][]Entry)}
}

func (s *memoryStore) Append(_ context.Context, sender string, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat := append(s.chats[sender], entries...)
	s.chats[sender] = append([]Entry(nil), tail(chat, s.size)...)
	return nil
}

func (s *memoryStore) Recent(_ context.Context, sender string, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), tail(s.chats[sender], n)...), nil
}
