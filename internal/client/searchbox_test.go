package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/unityguilds/hub/internal/search"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	block   map[string]chan struct{}
	started chan string
}

func (f *fakeSearcher) Search(ctx context.Context, query, guild string) (*search.Response, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	wait := f.block[query]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- query
	}
	if wait != nil {
		<-wait
	}
	return &search.Response{Query: query}, nil
}

func (f *fakeSearcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func collect() (func(SearchResult), chan SearchResult) {
	ch := make(chan SearchResult, 16)
	return func(r SearchResult) { ch <- r }, ch
}

func TestSearchBoxDebounces(t *testing.T) {
	s := &fakeSearcher{}
	deliver, results := collect()
	box := NewSearchBox(s, "black", 20*time.Millisecond, deliver)
	defer box.Close()

	for _, q := range []string{"ch", "cha", "char", "charity"} {
		box.Type(q)
	}

	select {
	case r := <-results:
		if r.Query != "charity" || r.Response == nil {
			t.Errorf("result = %+v, want charity", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	if got := s.calls(); len(got) != 1 || got[0] != "charity" {
		t.Errorf("searches = %v, want [charity]", got)
	}
}

func TestSearchBoxShortQuery(t *testing.T) {
	s := &fakeSearcher{}
	deliver, results := collect()
	box := NewSearchBox(s, "black", 10*time.Millisecond, deliver)
	defer box.Close()

	box.Type("c")

	r := <-results
	if r.Response != nil || r.Err != nil {
		t.Errorf("short query result = %+v, want empty", r)
	}
	time.Sleep(30 * time.Millisecond)
	if got := s.calls(); len(got) != 0 {
		t.Errorf("searches = %v, want none", got)
	}
}

func TestSearchBoxDropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	s := &fakeSearcher{
		block:   map[string]chan struct{}{"old": release},
		started: make(chan string, 4),
	}
	deliver, results := collect()
	box := NewSearchBox(s, "black", 5*time.Millisecond, deliver)
	defer box.Close()

	box.Type("old")
	if q := <-s.started; q != "old" {
		t.Fatalf("first search = %q, want old", q)
	}
	box.Type("new")
	<-s.started

	r := <-results
	if r.Query != "new" {
		t.Fatalf("first delivered = %q, want new", r.Query)
	}

	close(release)
	select {
	case r := <-results:
		t.Errorf("stale result delivered: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchBoxClose(t *testing.T) {
	s := &fakeSearcher{}
	deliver, results := collect()
	box := NewSearchBox(s, "black", 10*time.Millisecond, deliver)

	box.Type("charity")
	box.Close()
	box.Type("again")

	select {
	case r := <-results:
		t.Errorf("result after Close: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	if got := s.calls(); len(got) != 0 {
		t.Errorf("searches = %v, want none", got)
	}
}
