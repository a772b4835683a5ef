package analytics

import (
	"github.com/workforce/backend/internal/domain/identity"
)

// FilterRows keeps the rows visible under the scope. Each populated
// allow-list dimension must match its row field exactly; empty
// dimensions impose no filter. Filtering is idempotent: running the
// same scope over an already-filtered set changes nothing.
func FilterRows[T Scoped](rows []T, scope identity.EffectiveScope) []T {
	if scope.Unrestricted || scope.IsEmpty() {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		company, function, department := row.Coordinates()
		if scope.Allows(company, function, department) {
			out = append(out, row)
		}
	}
	return out
}
