package ledger

import (
	"strings"
	"time"

	"github.com/capgains-dev/capgains/internal/model"
)

// journalKey groups transfers that plausibly form an IN/OUT pair: an exact
// (date, qty) match.
type journalKey struct {
	date time.Time
	qty  string
}

// matchJournalTransactions resolves direction-ambiguous JOURNAL entries.
// Upstream converters sometimes record a transfer without knowing which
// side of the pair it is; this pass assigns JOURNAL_IN/JOURNAL_OUT using,
// in order: an IN/OUT pairing already present in a 2-element (date, qty)
// group, textual evidence retained in the description, and finally the
// currency of the entry. The currency fallback assumes the common gambit
// direction (CAD side in, foreign side out); it cannot detect a
// reverse-direction gambit from currency alone.
func (l *Ledger) matchJournalTransactions() {
	groups := make(map[journalKey][]*model.Transaction)
	var order []journalKey
	for _, t := range l.txs {
		if !t.Action.IsJournal() {
			continue
		}
		key := journalKey{date: t.Date, qty: t.Qty.String()}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) == 2 && hasInOutPair(group) {
			continue
		}
		// No pairing to lean on: resolve each still-ambiguous entry on
		// its own evidence.
		for _, t := range group {
			if t.Action == model.ActionJournal {
				t.Action = inferDirection(t.Description, t.Currency)
			}
		}
	}
}

func hasInOutPair(group []*model.Transaction) bool {
	var in, out bool
	for _, t := range group {
		switch t.Action {
		case model.ActionJournalIn:
			in = true
		case model.ActionJournalOut:
			out = true
		}
	}
	return in && out
}

// inferDirection classifies a single ambiguous transfer. Textual evidence
// from the source document wins; otherwise CAD-denominated entries are
// treated as the receiving side. Best effort, not authoritative.
func inferDirection(description, currency string) model.Action {
	switch {
	case strings.Contains(description, "Transfer Out"),
		strings.Contains(description, "Transferred Out"):
		return model.ActionJournalOut
	case strings.Contains(description, "Transfer In"),
		strings.Contains(description, "Transferred In"):
		return model.ActionJournalIn
	case currency == "CAD":
		return model.ActionJournalIn
	default:
		return model.ActionJournalOut
	}
}
