package hierarchy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/workforce/backend/internal/domain/identity"
)

// Index is an in-memory view over one employee-list snapshot: records
// keyed by email, a secondary key by employee code, and org levels
// assigned by walking supervisor chains from the roots down.
//
// The index is immutable after Build and safe for concurrent reads.
type Index struct {
	byEmail map[string]Employee
	byCode  map[string]string
	reports map[string][]string
}

// BuildIndex normalizes the rows, drops rows without an email, wires
// supervisor links, and assigns org levels. Later rows win on
// duplicate emails, matching last-write-wins upload semantics.
func BuildIndex(rows []Employee) *Index {
	idx := &Index{
		byEmail: make(map[string]Employee, len(rows)),
		byCode:  make(map[string]string, len(rows)),
		reports: make(map[string][]string),
	}

	for _, row := range rows {
		rec := row.Normalize()
		if !rec.HasEmail() {
			continue
		}
		idx.byEmail[rec.Email] = rec
	}

	for email, rec := range idx.byEmail {
		if rec.EmployeeCode != "" {
			idx.byCode[strings.ToLower(rec.EmployeeCode)] = email
		}
		// an email doubles as its own code so manager references by
		// email resolve through the same table
		idx.byCode[email] = email
	}

	parents := make(map[string]string, len(idx.byEmail))
	for email, rec := range idx.byEmail {
		if parent, ok := idx.parentOf(rec); ok && parent != email {
			parents[email] = parent
			idx.reports[parent] = append(idx.reports[parent], email)
		}
	}
	for _, children := range idx.reports {
		sort.Strings(children)
	}

	idx.assignLevels(parents)
	return idx
}

// parentOf resolves a supervisor reference to an indexed email:
// manager code first, then manager email, then supervisor name.
func (idx *Index) parentOf(rec Employee) (string, bool) {
	if code := strings.ToLower(rec.ManagerCode); code != "" {
		if email, ok := idx.byCode[code]; ok {
			return email, true
		}
		if strings.Contains(code, "@") {
			if _, ok := idx.byEmail[code]; ok {
				return code, true
			}
		}
	}
	if name := strings.ToLower(rec.SupervisorName); name != "" {
		// scan in email order so a duplicated display name resolves
		// the same way on every build
		match := ""
		for email, other := range idx.byEmail {
			if strings.ToLower(other.DisplayName) != name {
				continue
			}
			if match == "" || email < match {
				match = email
			}
		}
		if match != "" {
			return match, true
		}
	}
	return "", false
}

// assignLevels runs a breadth-first walk from the roots, tagging each
// record with its distance from the top. Records unreachable from any
// root (cycles, orphaned subtrees) fall back to the department level.
func (idx *Index) assignLevels(parents map[string]string) {
	roots := make([]string, 0)
	for email := range idx.byEmail {
		if _, ok := parents[email]; !ok {
			roots = append(roots, email)
		}
	}
	if len(roots) == 0 {
		// pure cycle; treat everyone as a root so levels stay defined
		for email := range idx.byEmail {
			roots = append(roots, email)
		}
	}
	sort.Strings(roots)

	type item struct {
		email string
		depth int
	}
	queue := make([]item, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, item{email: r, depth: 0})
	}

	seen := make(map[string]bool, len(idx.byEmail))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur.email] {
			continue
		}
		seen[cur.email] = true

		rec := idx.byEmail[cur.email]
		rec.OrgLevel = levelForDepth(cur.depth)
		idx.byEmail[cur.email] = rec

		for _, child := range idx.reports[cur.email] {
			queue = append(queue, item{email: child, depth: cur.depth + 1})
		}
	}

	for email, rec := range idx.byEmail {
		if !seen[email] {
			rec.OrgLevel = identity.ScopeDepartment
			idx.byEmail[email] = rec
		}
	}
}

func levelForDepth(depth int) identity.ScopeLevel {
	if depth == 0 {
		return identity.ScopeAll
	}
	return identity.ScopeLevel("N-" + strconv.Itoa(depth))
}

// Size returns the number of indexed records.
func (idx *Index) Size() int {
	return len(idx.byEmail)
}

// Lookup returns the record for an email, case-insensitive and
// whitespace-trimmed.
func (idx *Index) Lookup(email string) (Employee, bool) {
	rec, ok := idx.byEmail[identity.NormalizeEmail(email)]
	return rec, ok
}

// LookupByCode returns the record holding the given employee code.
func (idx *Index) LookupByCode(code string) (Employee, bool) {
	email, ok := idx.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Employee{}, false
	}
	return idx.byEmail[email], true
}

// DirectReports returns the records whose supervisor reference
// resolves to the employee with the given code.
func (idx *Index) DirectReports(code string) []Employee {
	email, ok := idx.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil
	}
	children := idx.reports[email]
	out := make([]Employee, 0, len(children))
	for _, c := range children {
		out = append(out, idx.byEmail[c])
	}
	return out
}

// All returns every indexed record, ordered by email.
func (idx *Index) All() []Employee {
	out := make([]Employee, 0, len(idx.byEmail))
	for _, rec := range idx.byEmail {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// DepartmentsUnderFunction returns the distinct departments observed
// among records sharing the function, sorted.
func (idx *Index) DepartmentsUnderFunction(function string) []string {
	function = strings.TrimSpace(function)
	set := make(map[string]struct{})
	for _, rec := range idx.byEmail {
		if rec.Function == function && rec.Department != "" {
			set[rec.Department] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// CompaniesWithFunction returns the distinct companies that have at
// least one record in the function, sorted.
func (idx *Index) CompaniesWithFunction(function string) []string {
	function = strings.TrimSpace(function)
	set := make(map[string]struct{})
	for _, rec := range idx.byEmail {
		if rec.Function == function && rec.Company != "" {
			set[rec.Company] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FunctionOption is a function paired with the company it appears in.
type FunctionOption struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

// DepartmentOption is a department paired with its function and company.
type DepartmentOption struct {
	Name     string `json:"name"`
	Function string `json:"function"`
	Company  string `json:"company"`
}

// ScopeOptions feeds cascading company/function/department pickers:
// only functions under a selected company and departments under a
// selected function should be offered.
type ScopeOptions struct {
	Companies   []string           `json:"companies"`
	Functions   []FunctionOption   `json:"functions"`
	Departments []DepartmentOption `json:"departments"`
}

// Options collects the distinct companies, functions, and departments
// in the snapshot. Functions named in excluded are left out of the
// function and department lists.
func (idx *Index) Options(excluded []string) ScopeOptions {
	skip := make(map[string]struct{}, len(excluded))
	for _, f := range excluded {
		skip[strings.TrimSpace(f)] = struct{}{}
	}

	type pair struct{ a, b string }
	companies := make(map[string]struct{})
	seenF := make(map[pair]struct{})
	seenD := make(map[pair]struct{})
	functions := make([]FunctionOption, 0)
	departments := make([]DepartmentOption, 0)

	// iterate in email order so the winning company for a duplicated
	// (function, department) pair is deterministic
	for _, rec := range idx.All() {
		if rec.Company != "" {
			companies[rec.Company] = struct{}{}
		}
		if _, ok := skip[rec.Function]; ok {
			continue
		}
		if rec.Function != "" && rec.Company != "" {
			key := pair{rec.Company, rec.Function}
			if _, ok := seenF[key]; !ok {
				seenF[key] = struct{}{}
				functions = append(functions, FunctionOption{Name: rec.Function, Company: rec.Company})
			}
		}
		if rec.Department != "" && rec.Function != "" {
			key := pair{rec.Function, rec.Department}
			if _, ok := seenD[key]; !ok {
				seenD[key] = struct{}{}
				departments = append(departments, DepartmentOption{
					Name:     rec.Department,
					Function: rec.Function,
					Company:  rec.Company,
				})
			}
		}
	}

	sort.Slice(functions, func(i, j int) bool {
		if functions[i].Company != functions[j].Company {
			return functions[i].Company < functions[j].Company
		}
		return functions[i].Name < functions[j].Name
	})
	sort.Slice(departments, func(i, j int) bool {
		if departments[i].Function != departments[j].Function {
			return departments[i].Function < departments[j].Function
		}
		return departments[i].Name < departments[j].Name
	})

	return ScopeOptions{
		Companies:   sortedKeys(companies),
		Functions:   functions,
		Departments: departments,
	}
}

// Restrict filters the options to what an effective scope may see, so
// non-admin pickers only offer choices inside the caller's own slice
// of the organization.
func (o ScopeOptions) Restrict(scope identity.EffectiveScope) ScopeOptions {
	if scope.Unrestricted {
		return o
	}
	lists := scope.AllowLists

	out := ScopeOptions{
		Companies:   make([]string, 0, len(o.Companies)),
		Functions:   make([]FunctionOption, 0, len(o.Functions)),
		Departments: make([]DepartmentOption, 0, len(o.Departments)),
	}
	for _, c := range o.Companies {
		if lists.AllowsCompany(c) {
			out.Companies = append(out.Companies, c)
		}
	}
	for _, f := range o.Functions {
		if lists.AllowsCompany(f.Company) && lists.AllowsFunction(f.Name) {
			out.Functions = append(out.Functions, f)
		}
	}
	for _, d := range o.Departments {
		if lists.AllowsCompany(d.Company) && lists.AllowsFunction(d.Function) && lists.AllowsDepartment(d.Name) {
			out.Departments = append(out.Departments, d)
		}
	}
	return out
}
