package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps objects in process memory. Used by tests and the memory driver.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	info Info
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

// Put stores data under key, replacing any existing object. An empty content
// type is derived from the key's extension.
func (s *MemoryStore) Put(key string, data []byte, contentType string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(clean)))
	}
	sum := sha256.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[clean] = memoryObject{
		data: bytes.Clone(data),
		info: Info{
			Key:          clean,
			Size:         int64(len(data)),
			ContentType:  contentType,
			ETag:         hex.EncodeToString(sum[:]),
			LastModified: time.Now().UTC(),
		},
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	obj, err := s.lookup(key)
	if err != nil {
		return Info{}, nil, err
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *MemoryStore) Head(_ context.Context, key string) (Info, error) {
	obj, err := s.lookup(key)
	if err != nil {
		return Info{}, err
	}
	return obj.info, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	clean, err := cleanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0)
	for k, obj := range s.objects {
		if strings.HasPrefix(k, clean) {
			infos = append(infos, obj.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *MemoryStore) lookup(key string) (memoryObject, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return memoryObject{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[clean]
	if !ok {
		return memoryObject{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	return obj, nil
}
