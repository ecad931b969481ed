// Package determinism derives reproducible identifiers so that rerunning a
// comparison on identical input yields an identical result record.
package determinism

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes comparison IDs; a fixed v4 literal so derived IDs are
// stable across builds.
var namespace = uuid.MustParse("9c1f4f5e-7b21-4b65-a16e-3f8a27d0c44b")

// ComparisonID derives a deterministic UUID (version 5) from the set of
// document IDs being compared. Order of the input does not matter.
func ComparisonID(documentIDs []string) string {
	sorted := make([]string, len(documentIDs))
	copy(sorted, documentIDs)
	sort.Strings(sorted)

	return uuid.NewSHA1(namespace, []byte(strings.Join(sorted, "|"))).String()
}
