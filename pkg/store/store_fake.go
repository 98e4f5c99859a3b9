package store

import (
	"sync"
	"time"
)

type fakeReply struct {
	content   string
	expiresAt time.Time
}

// FakeStore keeps everything in memory
// It is used for testing purposes and for the command line.
type FakeStore struct {
	mu      sync.Mutex
	now     func() time.Time
	replies map[string]fakeReply
	links   []Link
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		now:     time.Now,
		replies: map[string]fakeReply{},
	}
}

func (s *FakeStore) GetReply(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.replies[key]
	if !ok {
		return "", ErrNotFound
	}

	if !r.expiresAt.IsZero() && !s.now().Before(r.expiresAt) {
		delete(s.replies, key)
		return "", ErrNotFound
	}

	return r.content, nil
}

func (s *FakeStore) SetReply(key string, content string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := fakeReply{content: content}
	if ttl > 0 {
		r.expiresAt = s.now().Add(ttl)
	}
	s.replies[key] = r

	return nil
}

func (s *FakeStore) AddLink(link Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = append(s.links, link)
	if len(s.links) > historyLimit {
		s.links = s.links[len(s.links)-historyLimit:]
	}

	return nil
}

func (s *FakeStore) GetLinks(limit int) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.links) {
		limit = len(s.links)
	}

	links := make([]Link, 0, limit)
	for i := len(s.links) - 1; i >= 0 && len(links) < limit; i-- {
		links = append(links, s.links[i])
	}

	return links, nil
}
