package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func company(id string, periodicity int) types.Company {
	return types.Company{
		ID:                       id,
		Name:                     "Company " + id,
		Location:                 "Berlin",
		LinkedInProfile:          "https://www.linkedin.com/company/" + id,
		Emails:                   []string{id + "@example.com"},
		PhoneNumbers:             []string{"+14155550100"},
		CommunicationPeriodicity: periodicity,
	}
}

func ids[T any](items []T, key func(T) string) []string {
	out := make([]string, len(items))
	for i, x := range items {
		out[i] = key(x)
	}
	return out
}

func companyIDs(cs []types.Company) []string {
	return ids(cs, func(c types.Company) string { return c.ID })
}

func methodIDs(ms []types.CommunicationMethod) []string {
	return ids(ms, func(m types.CommunicationMethod) string { return m.ID })
}

func TestNewSeedsDefaultMethods(t *testing.T) {
	s := New()

	assert.Empty(t, s.Companies())
	assert.Empty(t, s.Communications())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, methodIDs(s.CommunicationMethods()))
}

func TestNewWithSnapshot(t *testing.T) {
	snap := types.Snapshot{
		Companies:            []types.Company{company("a", 7)},
		CommunicationMethods: []types.CommunicationMethod{{ID: "m", Name: "Fax", Sequence: 1}},
	}

	s := New(WithSnapshot(snap))

	assert.Equal(t, []string{"a"}, companyIDs(s.Companies()))
	assert.Equal(t, []string{"m"}, methodIDs(s.CommunicationMethods()))

	snap.Companies[0].Name = "mutated"
	got, ok := s.Company("a")
	require.True(t, ok)
	assert.Equal(t, "Company a", got.Name, "store must not alias the hydration snapshot")
}

func TestCompanyMutations(t *testing.T) {
	t.Run("add preserves insertion order", func(t *testing.T) {
		s := New()
		s.AddCompany(company("a", 7))
		s.AddCompany(company("b", 7))
		s.AddCompany(company("c", 7))
		assert.Equal(t, []string{"a", "b", "c"}, companyIDs(s.Companies()))
	})

	t.Run("update replaces in place", func(t *testing.T) {
		s := New()
		s.AddCompany(company("a", 7))
		s.AddCompany(company("b", 7))

		updated := company("a", 30)
		updated.Name = "Renamed"
		s.UpdateCompany(updated)

		got := s.Companies()
		assert.Equal(t, []string{"a", "b"}, companyIDs(got))
		assert.Equal(t, "Renamed", got[0].Name)
		assert.Equal(t, 30, got[0].CommunicationPeriodicity)
	})

	t.Run("update with unknown id leaves collection unchanged", func(t *testing.T) {
		s := New()
		s.AddCompany(company("a", 7))
		s.AddCompany(company("b", 7))
		before := s.Companies()

		s.UpdateCompany(company("zzz", 1))

		assert.Equal(t, before, s.Companies())
	})

	t.Run("delete removes exactly the match and keeps order", func(t *testing.T) {
		s := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			s.AddCompany(company(id, 7))
		}

		s.DeleteCompany("b")
		assert.Equal(t, []string{"a", "c", "d"}, companyIDs(s.Companies()))

		s.DeleteCompany("missing")
		assert.Equal(t, []string{"a", "c", "d"}, companyIDs(s.Companies()))
	})
}

func TestCommunicationMethodMutations(t *testing.T) {
	s := New()

	s.AddCommunicationMethod(types.CommunicationMethod{ID: "6", Name: "Meetup", Sequence: 6})
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, methodIDs(s.CommunicationMethods()))

	s.UpdateCommunicationMethod(types.CommunicationMethod{ID: "3", Name: "E-mail", Sequence: 3, Mandatory: false})
	m, ok := s.Method("3")
	require.True(t, ok)
	assert.Equal(t, "E-mail", m.Name)
	assert.False(t, m.Mandatory)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, methodIDs(s.CommunicationMethods()))

	before := s.CommunicationMethods()
	s.UpdateCommunicationMethod(types.CommunicationMethod{ID: "nope", Name: "x"})
	assert.Equal(t, before, s.CommunicationMethods())

	s.DeleteCommunicationMethod("2")
	assert.Equal(t, []string{"1", "3", "4", "5", "6"}, methodIDs(s.CommunicationMethods()))
}

func TestSnapshotsAreNotAffectedByLaterMutations(t *testing.T) {
	s := New()
	s.AddCompany(company("a", 7))
	snap := s.Snapshot()

	s.AddCompany(company("b", 7))
	s.DeleteCompany("a")

	assert.Equal(t, []string{"a"}, companyIDs(snap.Companies))
	assert.Equal(t, []string{"b"}, companyIDs(s.Companies()))
}

func TestSubscribe(t *testing.T) {
	s := New()

	var got []types.Snapshot
	unsubscribe := s.Subscribe(func(snap types.Snapshot) {
		got = append(got, snap)
	})

	s.AddCompany(company("a", 7))
	s.AddCommunication(types.Communication{ID: "c1", CompanyID: "a", MethodID: "1", Date: day(2024, time.May, 1)})
	s.DeleteCommunicationMethod("5")

	require.Len(t, got, 3, "one broadcast per mutation")
	assert.Equal(t, []string{"a"}, companyIDs(got[0].Companies))
	assert.Empty(t, got[0].Communications)
	assert.Len(t, got[1].Communications, 1)
	assert.Len(t, got[2].CommunicationMethods, 4)

	unsubscribe()
	s.AddCompany(company("b", 7))
	assert.Len(t, got, 3, "no broadcast after unsubscribe")
}

func TestSubscribeObserverMayQueryStore(t *testing.T) {
	s := New(WithClock(func() time.Time { return day(2024, time.June, 1) }))

	var next time.Time
	s.Subscribe(func(types.Snapshot) {
		next, _ = s.NextScheduledCommunication("a")
	})

	s.AddCompany(company("a", 10))
	s.AddCommunication(types.Communication{ID: "c1", CompanyID: "a", MethodID: "1", Date: day(2024, time.May, 25)})

	assert.Equal(t, day(2024, time.June, 4), next)
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	s := New()
	var order []string
	s.Subscribe(func(types.Snapshot) { order = append(order, "first") })
	s.Subscribe(func(types.Snapshot) { order = append(order, "second") })

	s.AddCompany(company("a", 7))

	assert.Equal(t, []string{"first", "second"}, order)
}
