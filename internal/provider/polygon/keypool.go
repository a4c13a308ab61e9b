package polygon

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// KeySelectionStrategy picks which API key serves the next request.
type KeySelectionStrategy int

const (
	RoundRobin KeySelectionStrategy = iota // rotate through keys in order
	LeastUsed                              // key with the fewest requests so far
)

func (k KeySelectionStrategy) String() string {
	switch k {
	case RoundRobin:
		return "round-robin"
	case LeastUsed:
		return "least-used"
	default:
		return "unknown"
	}
}

// ParseStrategy parses round-robin | least-used.
func ParseStrategy(s string) (KeySelectionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round-robin", "roundrobin":
		return RoundRobin, nil
	case "least-used", "leastused":
		return LeastUsed, nil
	default:
		return RoundRobin, fmt.Errorf("unknown key strategy %q (use: round-robin, least-used)", s)
	}
}

type apiKeyInfo struct {
	key          string
	lastUsed     time.Time
	requestCount int64
}

// KeyStats is a usage snapshot for one key.
type KeyStats struct {
	KeyPrefix    string
	RequestCount int64
	LastUsed     time.Time
}

// KeyPool hands out API keys according to a strategy. Safe for concurrent use.
type KeyPool struct {
	mu       sync.Mutex
	keys     []*apiKeyInfo
	index    int
	strategy KeySelectionStrategy
}

func NewKeyPool(apiKeys []string, strategy KeySelectionStrategy) (*KeyPool, error) {
	var keys []*apiKeyInfo
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, &apiKeyInfo{key: k})
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}
	return &KeyPool{keys: keys, strategy: strategy}, nil
}

// Next selects a key and records its use.
func (p *KeyPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var selected *apiKeyInfo
	switch p.strategy {
	case LeastUsed:
		selected = p.keys[0]
		for _, k := range p.keys[1:] {
			if k.requestCount < selected.requestCount {
				selected = k
			}
		}
	default:
		selected = p.keys[p.index]
		p.index = (p.index + 1) % len(p.keys)
	}
	selected.lastUsed = time.Now()
	selected.requestCount++
	return selected.key
}

func (p *KeyPool) Len() int { return len(p.keys) }

func (p *KeyPool) Stats() []KeyStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]KeyStats, len(p.keys))
	for i, k := range p.keys {
		out[i] = KeyStats{KeyPrefix: keyPrefix(k.key), RequestCount: k.requestCount, LastUsed: k.lastUsed}
	}
	return out
}

func keyPrefix(key string) string {
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return key
}
