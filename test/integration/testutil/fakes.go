//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/courtside/platform/internal/provider"
	"github.com/google/uuid"
)

// FakeGeocoder returns fixed coordinates without any network calls. Set
// NoResult to simulate an unresolvable address.
type FakeGeocoder struct {
	mu       sync.Mutex
	NoResult bool
	Calls    int
}

// NewFakeGeocoder creates a FakeGeocoder resolving everything to Chicago.
func NewFakeGeocoder() *FakeGeocoder {
	return &FakeGeocoder{}
}

func (g *FakeGeocoder) Geocode(ctx context.Context, address, city, state, zip string) (*provider.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.NoResult {
		return nil, nil
	}
	return &provider.Coordinates{Latitude: 41.8781, Longitude: -87.6298}, nil
}

// FakeStorage keeps uploaded objects in memory and records delete calls.
// Set FailDeletes to make every Delete return an error.
type FakeStorage struct {
	mu          sync.Mutex
	Objects     map[string][]byte
	Deleted     []string
	FailDeletes bool
}

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: map[string][]byte{}}
}

func (s *FakeStorage) Store(ctx context.Context, body io.Reader, size int64, contentType, folder string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("http://storage.test/%s/%s", folder, uuid.New().String())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[url] = data
	return url, nil
}

func (s *FakeStorage) Delete(ctx context.Context, photoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, photoURL)
	if s.FailDeletes {
		return errors.New("storage unavailable")
	}
	delete(s.Objects, photoURL)
	return nil
}

// ObjectCount returns how many objects are currently stored.
func (s *FakeStorage) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// DeleteCount returns how many Delete calls were made.
func (s *FakeStorage) DeleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Deleted)
}
