package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compensation-engine/cache"
	"github.com/warp/compensation-engine/generic"
	"github.com/warp/compensation-engine/generic/store"
)

// countingRepo counts how often the wrapped repository is hit.
type countingRepo struct {
	next  generic.EmployeeRepository
	calls int
}

func (c *countingRepo) GetFinancialProfile(ctx context.Context, id generic.EmployeeID) (generic.ProfileRecord, error) {
	c.calls++
	return c.next.GetFinancialProfile(ctx, id)
}

func seededRepo() *countingRepo {
	m := store.NewMemory()
	salary := decimal.NewFromInt(45000)
	score := 710
	hire := generic.NewTimePoint(2022, time.January, 10)
	m.PutProfile(generic.ProfileRecord{
		EmployeeID:   "emp-1",
		Name:         "Amara Perera",
		AnnualSalary: &salary,
		CreditScore:  &score,
		HireDate:     &hire,
	})
	return &countingRepo{next: m}
}

func TestMemory_Expiry(t *testing.T) {
	// GIVEN: a cache with a controllable clock
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	// WHEN/THEN: before the TTL the value is served
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	// WHEN/THEN: at the TTL it is gone
	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	now = now.AddDate(10, 0, 0)

	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestCachedProfiles_ServesSecondReadFromCache(t *testing.T) {
	// GIVEN: a cached repository over a store holding one employee
	repo := seededRepo()
	profiles := cache.NewCachedProfiles(repo, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	// WHEN: the profile is read twice
	first, err := profiles.GetFinancialProfile(ctx, "emp-1")
	require.NoError(t, err)
	second, err := profiles.GetFinancialProfile(ctx, "emp-1")
	require.NoError(t, err)

	// THEN: the store was hit once and both reads agree
	assert.Equal(t, 1, repo.calls)
	require.NotNil(t, second.AnnualSalary)
	assert.True(t, first.AnnualSalary.Equal(*second.AnnualSalary))
	require.NotNil(t, second.CreditScore)
	assert.Equal(t, 710, *second.CreditScore)
	require.NotNil(t, second.HireDate)
	assert.True(t, first.HireDate.Equal(*second.HireDate))
	assert.Nil(t, second.ExistingLoanBalance, "missing fields stay missing through the cache")
}

func TestCachedProfiles_InvalidateForcesReload(t *testing.T) {
	repo := seededRepo()
	profiles := cache.NewCachedProfiles(repo, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	_, err := profiles.GetFinancialProfile(ctx, "emp-1")
	require.NoError(t, err)

	profiles.Invalidate(ctx, "emp-1")

	_, err = profiles.GetFinancialProfile(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestCachedProfiles_NotFoundIsNotCached(t *testing.T) {
	repo := seededRepo()
	mem := cache.NewMemory()
	profiles := cache.NewCachedProfiles(repo, mem, time.Minute)
	ctx := context.Background()

	_, err := profiles.GetFinancialProfile(ctx, "ghost")

	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.Equal(t, 0, mem.Len())
}

func TestCachedProfiles_CorruptEntryFallsThrough(t *testing.T) {
	repo := seededRepo()
	mem := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "profile:emp-1", "{not json", time.Minute))
	profiles := cache.NewCachedProfiles(repo, mem, time.Minute)

	rec, err := profiles.GetFinancialProfile(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, generic.EmployeeID("emp-1"), rec.EmployeeID)
	assert.Equal(t, 1, repo.calls)
}
