// Package importer converts brokerage exports into ledger transactions.
// Converters are best-effort adapters around whatever a brokerage emits;
// the ACB engine itself never depends on them.
package importer

import (
	"io"
	"strings"

	"github.com/capgains-dev/capgains/internal/model"
)

// Converter turns one brokerage export stream into transactions.
type Converter interface {
	Convert(r io.Reader) ([]*model.Transaction, error)
	Format() string
}

// Registry holds named converters.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds a converter. Panics on duplicate format.
func (r *Registry) Register(c Converter) {
	key := strings.ToLower(c.Format())
	if _, ok := r.converters[key]; ok {
		panic("duplicate converter format: " + key)
	}
	r.converters[key] = c
}

// Get returns the converter for format, or nil.
func (r *Registry) Get(format string) Converter {
	return r.converters[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in converters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SchwabEAC{})
	return r
}

// FilterTickers keeps only transactions for the given tickers. An empty
// list keeps everything.
func FilterTickers(txs []*model.Transaction, tickers []string) []*model.Transaction {
	if len(tickers) == 0 {
		return txs
	}
	var kept []*model.Transaction
	for _, t := range txs {
		for _, ticker := range tickers {
			if t.Ticker == ticker {
				kept = append(kept, t)
				break
			}
		}
	}
	return kept
}

// ApplyAliases rewrites tickers through a caller-supplied alias map, e.g.
// to fold a dual-listed security's two symbols into one ledger ticker. The
// mapping is configuration; nothing here decides what maps to what.
func ApplyAliases(txs []*model.Transaction, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	for _, t := range txs {
		if alias, ok := aliases[t.Ticker]; ok {
			t.Ticker = alias
		}
	}
}
