package search

import (
	"errors"
	"sync"
)

// KeyPool is the process-wide credential rotation shared by every query.
// Rotation is serialized behind a mutex so two concurrent callers can't skip
// past a usable key.
type KeyPool struct {
	mu   sync.Mutex
	keys []string
	idx  int
}

func NewKeyPool(keys []string) (*KeyPool, error) {
	var clean []string
	for _, k := range keys {
		if k != "" {
			clean = append(clean, k)
		}
	}
	if len(clean) == 0 {
		return nil, errors.New("no API keys configured")
	}
	return &KeyPool{keys: clean}, nil
}

// Current returns the key in rotation.
func (p *KeyPool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.idx]
}

// Rotate advances to the next key. It only moves when the exhausted key is
// still current, so concurrent rotations for the same dead key advance once.
func (p *KeyPool) Rotate(exhausted string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keys[p.idx] == exhausted {
		p.idx = (p.idx + 1) % len(p.keys)
	}
}

func (p *KeyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
