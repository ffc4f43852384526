package fetch

import (
	"crypto/rand"
	"math/big"
	"sync/atomic"
)

// DefaultUserAgents is a set of current desktop browser user agents.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
}

// UserAgentPool hands out user agents for outgoing page requests.
// It is safe for concurrent use.
type UserAgentPool struct {
	uas     []string
	counter atomic.Uint64
}

// NewUserAgentPool creates a pool. An empty slice falls back to DefaultUserAgents.
func NewUserAgentPool(uas []string) *UserAgentPool {
	if len(uas) == 0 {
		uas = DefaultUserAgents
	}
	copied := make([]string, len(uas))
	copy(copied, uas)
	return &UserAgentPool{uas: copied}
}

// Next returns the next user agent in round-robin order.
func (p *UserAgentPool) Next() string {
	idx := p.counter.Add(1) - 1
	return p.uas[idx%uint64(len(p.uas))]
}

// Random returns a random user agent.
func (p *UserAgentPool) Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.uas))))
	if err != nil {
		return p.Next()
	}
	return p.uas[n.Int64()]
}
