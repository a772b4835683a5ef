package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce/backend/internal/domain/identity"
)

func sampleRows() []Employee {
	return []Employee{
		{Email: "ceo@acme.com", DisplayName: "Pat CEO", EmployeeCode: "E001", Company: "Acme", Function: "Executive", Department: "Board"},
		{Email: "cfo@acme.com", DisplayName: "Lee CFO", EmployeeCode: "E002", Company: "Acme", Function: "Finance", Department: "Leadership", ManagerCode: "E001"},
		{Email: "ap@acme.com", DisplayName: "Ana AP", EmployeeCode: "E010", Company: "Acme", Function: "Finance", Department: "AP", ManagerCode: "E002"},
		{Email: "ar@acme.com", DisplayName: "Rob AR", EmployeeCode: "E011", Company: "Acme", Function: "Finance", Department: "AR", ManagerCode: "E002"},
		{Email: "dev@acme.com", DisplayName: "Dee Dev", EmployeeCode: "E020", Company: "Acme", Function: "IT", Department: "Platform", ManagerCode: "E001"},
	}
}

func TestBuildIndexLookup(t *testing.T) {
	idx := BuildIndex(sampleRows())
	require.Equal(t, 5, idx.Size())

	rec, ok := idx.Lookup("ap@acme.com")
	require.True(t, ok)
	assert.Equal(t, "AP", rec.Department)

	rec, ok = idx.Lookup("  AP@Acme.COM  ")
	require.True(t, ok, "lookup is case-insensitive and trimmed")
	assert.Equal(t, "E010", rec.EmployeeCode)

	_, ok = idx.Lookup("ghost@acme.com")
	assert.False(t, ok)

	rec, ok = idx.LookupByCode("e002")
	require.True(t, ok)
	assert.Equal(t, "cfo@acme.com", rec.Email)
}

func TestBuildIndexDropsRowsWithoutEmail(t *testing.T) {
	rows := append(sampleRows(), Employee{DisplayName: "No Email", EmployeeCode: "E099"})
	idx := BuildIndex(rows)
	assert.Equal(t, 5, idx.Size())
}

func TestBuildIndexLastRowWinsOnDuplicateEmail(t *testing.T) {
	rows := []Employee{
		{Email: "dup@acme.com", Department: "Old"},
		{Email: "DUP@acme.com", Department: "New"},
	}
	idx := BuildIndex(rows)
	require.Equal(t, 1, idx.Size())
	rec, _ := idx.Lookup("dup@acme.com")
	assert.Equal(t, "New", rec.Department)
}

func TestDirectReports(t *testing.T) {
	idx := BuildIndex(sampleRows())

	reports := idx.DirectReports("E002")
	require.Len(t, reports, 2)
	assert.Equal(t, "ap@acme.com", reports[0].Email)
	assert.Equal(t, "ar@acme.com", reports[1].Email)

	assert.Empty(t, idx.DirectReports("E010"), "leaf has no reports")
	assert.Empty(t, idx.DirectReports("E404"), "unknown code has no reports")
}

func TestOrgLevelAssignment(t *testing.T) {
	idx := BuildIndex(sampleRows())

	want := map[string]identity.ScopeLevel{
		"ceo@acme.com": identity.ScopeAll,
		"cfo@acme.com": identity.ScopeFunction,
		"dev@acme.com": identity.ScopeFunction,
		"ap@acme.com":  identity.ScopeDepartment,
		"ar@acme.com":  identity.ScopeDepartment,
	}
	for email, level := range want {
		rec, ok := idx.Lookup(email)
		require.True(t, ok, email)
		assert.Equal(t, level, rec.OrgLevel, email)
	}
}

func TestOrgLevelDanglingManagerBecomesRoot(t *testing.T) {
	rows := []Employee{
		{Email: "a@x.com", EmployeeCode: "1", ManagerCode: "MISSING"},
		{Email: "b@x.com", EmployeeCode: "2", ManagerCode: "1"},
	}
	idx := BuildIndex(rows)

	rec, _ := idx.Lookup("a@x.com")
	assert.Equal(t, identity.ScopeAll, rec.OrgLevel, "dangling manager reference means no supervisor")
	rec, _ = idx.Lookup("b@x.com")
	assert.Equal(t, identity.ScopeFunction, rec.OrgLevel)
}

func TestOrgLevelCycleFallsBack(t *testing.T) {
	rows := []Employee{
		{Email: "a@x.com", EmployeeCode: "1", ManagerCode: "2"},
		{Email: "b@x.com", EmployeeCode: "2", ManagerCode: "1"},
	}
	idx := BuildIndex(rows)

	// with no real roots every record becomes a root; levels stay defined
	for _, email := range []string{"a@x.com", "b@x.com"} {
		rec, ok := idx.Lookup(email)
		require.True(t, ok)
		assert.NotEmpty(t, rec.OrgLevel)
	}
}

func TestSupervisorResolutionByEmailAndName(t *testing.T) {
	rows := []Employee{
		{Email: "boss@x.com", DisplayName: "Big Boss", EmployeeCode: "B1"},
		{Email: "byemail@x.com", ManagerCode: "boss@x.com"},
		{Email: "byname@x.com", SupervisorName: "big boss"},
	}
	idx := BuildIndex(rows)

	reports := idx.DirectReports("B1")
	require.Len(t, reports, 2)
	assert.Equal(t, "byemail@x.com", reports[0].Email)
	assert.Equal(t, "byname@x.com", reports[1].Email)
}

func TestDepartmentsUnderFunction(t *testing.T) {
	idx := BuildIndex(sampleRows())
	assert.Equal(t, []string{"AP", "AR", "Leadership"}, idx.DepartmentsUnderFunction("Finance"))
	assert.Empty(t, idx.DepartmentsUnderFunction("Marketing"))
}

func TestCompaniesWithFunction(t *testing.T) {
	rows := append(sampleRows(),
		Employee{Email: "fin@globex.com", Company: "Globex", Function: "Finance", Department: "Treasury"})
	idx := BuildIndex(rows)
	assert.Equal(t, []string{"Acme", "Globex"}, idx.CompaniesWithFunction("Finance"))
}

func TestScopeOptions(t *testing.T) {
	rows := append(sampleRows(),
		Employee{Email: "board@acme.com", Company: "Acme", Function: "CG Board", Department: "Board Ops"})
	idx := BuildIndex(rows)

	opts := idx.Options([]string{"CG Board"})
	assert.Equal(t, []string{"Acme"}, opts.Companies)

	names := make([]string, 0, len(opts.Functions))
	for _, f := range opts.Functions {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Executive", "Finance", "IT"}, names,
		"excluded functions are hidden from the pickers")

	for _, d := range opts.Departments {
		assert.NotEqual(t, "Board Ops", d.Name)
		if d.Name == "AP" {
			assert.Equal(t, "Finance", d.Function)
			assert.Equal(t, "Acme", d.Company)
		}
	}
}

func TestScopeOptionsRestrict(t *testing.T) {
	idx := BuildIndex(sampleRows())
	opts := idx.Options(nil)

	t.Run("unrestricted scope keeps the full feed", func(t *testing.T) {
		assert.Equal(t, opts, opts.Restrict(identity.UnrestrictedScope()))
	})

	t.Run("restricted scope narrows every dimension", func(t *testing.T) {
		scope := identity.RestrictedScope(identity.AllowLists{
			Functions: []string{"Finance"},
		})
		narrowed := opts.Restrict(scope)

		assert.Equal(t, []string{"Acme"}, narrowed.Companies)
		require.Len(t, narrowed.Functions, 1)
		assert.Equal(t, "Finance", narrowed.Functions[0].Name)

		names := make([]string, 0, len(narrowed.Departments))
		for _, d := range narrowed.Departments {
			names = append(names, d.Name)
		}
		assert.ElementsMatch(t, []string{"Leadership", "AP", "AR"}, names)
	})

	t.Run("department lists narrow further", func(t *testing.T) {
		scope := identity.RestrictedScope(identity.AllowLists{
			Functions:   []string{"Finance"},
			Departments: []string{"AP"},
		})
		narrowed := opts.Restrict(scope)

		require.Len(t, narrowed.Departments, 1)
		assert.Equal(t, "AP", narrowed.Departments[0].Name)
	})
}

func TestEmptyIndex(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Equal(t, 0, idx.Size())
	_, ok := idx.Lookup("anyone@x.com")
	assert.False(t, ok)
	assert.Empty(t, idx.All())
	assert.Empty(t, idx.Options(nil).Companies)
}
