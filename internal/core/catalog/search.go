package catalog

import (
	"time"

	"github.com/niksmo/galeria/pkg/debounce"
)

// DefaultSearchDelay is how long typing must pause before the search term
// is applied.
const DefaultSearchDelay = 300 * time.Millisecond

// A SearchInput coalesces keystrokes into a single SetSearchTerm call.
type SearchInput struct {
	store *Store
	deb   *debounce.Debouncer
}

func NewSearchInput(store *Store, delay time.Duration) *SearchInput {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &SearchInput{store: store, deb: debounce.New(delay)}
}

// Type records the current input value.
func (in *SearchInput) Type(term string) {
	in.deb.Schedule(func() {
		in.store.SetSearchTerm(term)
	})
}

// Submit applies the pending term right away.
func (in *SearchInput) Submit() {
	in.deb.Flush()
}

// Close drops a pending term.
func (in *SearchInput) Close() {
	in.deb.Cancel()
}
