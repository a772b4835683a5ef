package hierarchy

import (
	"github.com/workforce/backend/internal/domain/identity"
)

// ResolveScope derives the allow-lists a user gets for a declared
// scope level, walking the index:
//
//   - N sees everything, so every list stays empty.
//   - N-1 pins the user's company and function, with every department
//     observed under that function.
//   - N-2 and deeper pin the user's own company, function, and
//     department.
//
// An email missing from the index returns empty lists. Absent
// hierarchy data must never lock a user out, so resolution fails open
// rather than erroring.
func ResolveScope(idx *Index, email string, level identity.ScopeLevel) identity.AllowLists {
	if idx == nil || email == "" {
		return identity.AllowLists{}
	}
	if _, err := identity.ParseScopeLevel(string(level)); err != nil {
		return identity.AllowLists{}
	}
	if level.IsUnrestricted() {
		return identity.AllowLists{}
	}

	rec, ok := idx.Lookup(email)
	if !ok {
		return identity.AllowLists{}
	}

	if level.IsFunctionWide() {
		lists := identity.AllowLists{
			Departments: idx.DepartmentsUnderFunction(rec.Function),
		}
		if rec.Company != "" {
			lists.Companies = []string{rec.Company}
		}
		if rec.Function != "" {
			lists.Functions = []string{rec.Function}
		}
		return lists
	}

	// N-2 and any deeper level collapse to own department only
	lists := identity.AllowLists{}
	if rec.Company != "" {
		lists.Companies = []string{rec.Company}
	}
	if rec.Function != "" {
		lists.Functions = []string{rec.Function}
	}
	if rec.Department != "" {
		lists.Departments = []string{rec.Department}
	}
	return lists
}
