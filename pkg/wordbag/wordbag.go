// Package wordbag builds an inverted word-to-document index on top of a
// chainhash table and renders it bucket by bucket.
package wordbag

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	bloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/docbag/chainhash/pkg/chainhash"
	"github.com/docbag/chainhash/pkg/log"
)

const (
	// FalsePositive is the fixed false positive rate parameter for the
	// bloomfilter that prefilters table lookups, expressed in terms of
	// 0-1 is 0% - 100%
	FalsePositive = 1e-6

	// initialCapacity seeds the table below the first rehash for small
	// document sets.
	initialCapacity = 13
)

// Tokenize splits text into lower-cased tokens. Within each whitespace
// separated word only letters and digits are kept; words reduced to
// nothing are dropped. Token order follows input order.
func Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		var b strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
		}
	}

	return tokens
}

// Index builds a table mapping every distinct token across docs to the
// 0-based indices of the documents containing it, in increasing order,
// one index per document. It drives the table through Contains, Get and
// Set only. A bloomfilter shortcuts the lookup for tokens that were
// provably never indexed before.
func Index(ctx context.Context, docs []string) (*chainhash.Map[string, []int], error) {
	logger := log.GetLoggerFromContextWithName(ctx, "wordbag")

	table, err := chainhash.NewStringWithConfig[[]int](chainhash.Config{
		Capacity: initialCapacity,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	seen := bloom.NewWithEstimates(estimateTokens(docs), FalsePositive)

	for docIndex, doc := range docs {
		tokens := Tokenize(doc)

		// a token counts once per document no matter how often it occurs
		unique := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			unique[tok] = struct{}{}
		}

		for tok := range unique {
			// a bloom miss proves the token is new, skipping the table lookup
			if seen.TestString(tok) && table.Contains(tok) {
				indices, err := table.Get(tok)
				if err != nil {
					return nil, err
				}
				table.Set(tok, append(indices, docIndex))
				continue
			}

			table.Set(tok, []int{docIndex})
			seen.AddString(tok)
		}

		logger.V(1).Info("indexed document", "doc", docIndex, "tokens", len(tokens), "unique", len(unique))
	}

	logger.Info("index built", "documents", len(docs), "words", table.Len(), "buckets", table.BucketCount())

	return table, nil
}

// Fprint writes the index to w in the table's current bucket layout,
// visiting every bucket index in order and skipping empty ones, one
// "word": [docs] line per entry.
func Fprint(w io.Writer, table *chainhash.Map[string, []int]) error {
	if _, err := fmt.Fprintln(w, "{"); err != nil {
		return err
	}

	for i := 0; i < table.BucketCount(); i++ {
		size, err := table.BucketSize(i)
		if err != nil {
			return err
		}
		if size == 0 {
			continue
		}

		it, err := table.Bucket(i)
		if err != nil {
			return err
		}
		for entry, ok := it.Next(); ok; entry, ok = it.Next() {
			if _, err := fmt.Fprintf(w, " %q: %s,\n", entry.Key, formatDocs(entry.Value)); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func formatDocs(docs []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", d)
	}
	b.WriteByte(']')

	return b.String()
}

func estimateTokens(docs []string) uint {
	n := 1
	for _, doc := range docs {
		n += len(strings.Fields(doc))
	}

	return uint(n)
}
