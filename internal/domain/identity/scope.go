package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/workforce/backend/internal/domain/shared"
)

// ScopeLevel describes how far down the org tree a role can see.
// "N" is unrestricted, "N-1" covers the holder's function, and
// "N-2" or deeper is restricted to the holder's own department.
type ScopeLevel string

const (
	// ScopeAll grants visibility over the entire organization.
	ScopeAll ScopeLevel = "N"
	// ScopeFunction grants visibility over the holder's function.
	ScopeFunction ScopeLevel = "N-1"
	// ScopeDepartment grants visibility over the holder's own department.
	ScopeDepartment ScopeLevel = "N-2"
)

var scopeLevelPattern = regexp.MustCompile(`^N(-[1-9][0-9]*)?$`)

// ParseScopeLevel validates and normalizes a scope level tag.
func ParseScopeLevel(raw string) (ScopeLevel, error) {
	s := strings.TrimSpace(raw)
	if !scopeLevelPattern.MatchString(s) {
		return "", shared.NewDomainError("INVALID_SCOPE_LEVEL",
			fmt.Sprintf("scope level must be N or N-<k>, got %q", raw))
	}
	return ScopeLevel(s), nil
}

// Depth returns the numeric distance below the top of the tree.
// ScopeAll is depth 0, "N-1" is depth 1, and so on.
func (s ScopeLevel) Depth() int {
	if s == ScopeAll {
		return 0
	}
	k, err := strconv.Atoi(strings.TrimPrefix(string(s), "N-"))
	if err != nil {
		return 0
	}
	return k
}

// IsUnrestricted reports whether the level grants organization-wide access.
func (s ScopeLevel) IsUnrestricted() bool {
	return s == ScopeAll
}

// IsFunctionWide reports whether the level grants function-wide access.
func (s ScopeLevel) IsFunctionWide() bool {
	return s.Depth() == 1
}

func (s ScopeLevel) String() string {
	return string(s)
}

// AllowLists pins a role to explicit organizational units. An empty
// list leaves that dimension unrestricted; the lists narrow, never
// widen, what the scope level would otherwise derive.
type AllowLists struct {
	Companies   []string `json:"companies"`
	Functions   []string `json:"functions"`
	Departments []string `json:"departments"`
}

// IsEmpty reports whether no explicit restriction is set on any dimension.
func (a AllowLists) IsEmpty() bool {
	return len(a.Companies) == 0 && len(a.Functions) == 0 && len(a.Departments) == 0
}

// AllowsCompany reports whether the company passes the allow-list.
func (a AllowLists) AllowsCompany(company string) bool {
	return allowedBy(a.Companies, company)
}

// AllowsFunction reports whether the function passes the allow-list.
func (a AllowLists) AllowsFunction(function string) bool {
	return allowedBy(a.Functions, function)
}

// AllowsDepartment reports whether the department passes the allow-list.
func (a AllowLists) AllowsDepartment(department string) bool {
	return allowedBy(a.Departments, department)
}

// Membership is a case-sensitive exact match after trimming, the
// same normalization applied when the hierarchy index is built.
func allowedBy(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, v := range list {
		if strings.TrimSpace(v) == value {
			return true
		}
	}
	return false
}

// Normalize trims whitespace and drops empty entries from every list.
func (a AllowLists) Normalize() AllowLists {
	return AllowLists{
		Companies:   normalizeList(a.Companies),
		Functions:   normalizeList(a.Functions),
		Departments: normalizeList(a.Departments),
	}
}

func normalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// EffectiveScope is the resolved visibility of a user for analytics
// filtering. Empty lists mean the dimension is unrestricted.
type EffectiveScope struct {
	AllowLists
	Unrestricted bool `json:"unrestricted"`
}

// UnrestrictedScope returns a scope that passes every row.
func UnrestrictedScope() EffectiveScope {
	return EffectiveScope{Unrestricted: true}
}

// RestrictedScope returns a scope limited to the given allow-lists.
func RestrictedScope(lists AllowLists) EffectiveScope {
	return EffectiveScope{AllowLists: lists.Normalize()}
}

// Allows reports whether a row with the given organizational coordinates
// is visible under this scope. All set dimensions must match.
func (s EffectiveScope) Allows(company, function, department string) bool {
	if s.Unrestricted {
		return true
	}
	return s.AllowsCompany(company) && s.AllowsFunction(function) && s.AllowsDepartment(department)
}
