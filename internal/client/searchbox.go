package client

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/unityguilds/hub/internal/search"
)

// DefaultDebounce is how long typing must pause before a search is sent
const DefaultDebounce = 300 * time.Millisecond

// Searcher runs one search request
type Searcher interface {
	Search(ctx context.Context, query, guild string) (*search.Response, error)
}

// SearchResult is delivered for the latest query only.
// Response is nil when the query was too short to send.
type SearchResult struct {
	Seq      uint64
	Query    string
	Response *search.Response
	Err      error
}

// SearchBox debounces typed queries and drops responses that arrive
// after a newer query was typed.
type SearchBox struct {
	mu       sync.Mutex
	searcher Searcher
	guild    string
	delay    time.Duration
	deliver  func(SearchResult)
	timer    *time.Timer
	seq      uint64
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSearchBox creates a search box for one guild. deliver runs on the
// searching goroutine and must not block.
func NewSearchBox(s Searcher, guild string, delay time.Duration, deliver func(SearchResult)) *SearchBox {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchBox{
		searcher: s,
		guild:    guild,
		delay:    delay,
		deliver:  deliver,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Type records the box's new contents and restarts the debounce window
func (b *SearchBox) Type(query string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.seq++
	seq := b.seq

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < search.MinQueryLength {
		b.mu.Unlock()
		b.deliver(SearchResult{Seq: seq, Query: query})
		return
	}
	b.timer = time.AfterFunc(b.delay, func() { b.fire(seq, trimmed) })
	b.mu.Unlock()
}

func (b *SearchBox) fire(seq uint64, query string) {
	if !b.current(seq) {
		return
	}
	resp, err := b.searcher.Search(b.ctx, query, b.guild)
	if !b.current(seq) {
		return
	}
	b.deliver(SearchResult{Seq: seq, Query: query, Response: resp, Err: err})
}

func (b *SearchBox) current(seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && seq == b.seq
}

// Close stops the pending timer and abandons in-flight searches
func (b *SearchBox) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.cancel()
}
