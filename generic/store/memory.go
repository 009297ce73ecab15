// Package store provides in-memory repository implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/compensation-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements EmployeeRepository, ContributionRepository,
// ContributionWriter and LoanTypeRepository.
type Memory struct {
	mu            sync.RWMutex
	profiles      map[generic.EmployeeID]generic.ProfileRecord
	contributions map[generic.EmployeeID][]generic.ContributionEntry
	loanTypes     map[generic.LoanType]generic.LoanTypeInfo
}

func NewMemory() *Memory {
	return &Memory{
		profiles:      make(map[generic.EmployeeID]generic.ProfileRecord),
		contributions: make(map[generic.EmployeeID][]generic.ContributionEntry),
		loanTypes:     make(map[generic.LoanType]generic.LoanTypeInfo),
	}
}

// PutProfile stores or replaces a profile record.
func (m *Memory) PutProfile(r generic.ProfileRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[r.EmployeeID] = r
}

// PutLoanType stores or replaces a loan type.
func (m *Memory) PutLoanType(lt generic.LoanTypeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loanTypes[lt.ID] = lt
}

// GetFinancialProfile implements generic.EmployeeRepository.
func (m *Memory) GetFinancialProfile(_ context.Context, id generic.EmployeeID) (generic.ProfileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.profiles[id]
	if !ok {
		return generic.ProfileRecord{}, generic.EmployeeNotFound(id)
	}
	return r, nil
}

// GetLedger implements generic.ContributionRepository.
func (m *Memory) GetLedger(_ context.Context, id generic.EmployeeID) (generic.ContributionLedger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]generic.ContributionEntry, len(m.contributions[id]))
	copy(entries, m.contributions[id])
	return generic.ContributionLedger{EmployeeID: id, Entries: entries}, nil
}

// AppendContribution implements generic.ContributionWriter. Append-only;
// entries stay ordered by period and each period is recorded once.
func (m *Memory) AppendContribution(_ context.Context, entry generic.ContributionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.contributions[entry.EmployeeID]
	for _, e := range entries {
		if e.Period.Equal(entry.Period) {
			return generic.ErrDuplicateContribution
		}
	}

	// Binary search for insertion point
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Period.After(entry.Period)
	})

	entries = append(entries, generic.ContributionEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = entry
	m.contributions[entry.EmployeeID] = entries
	return nil
}

// GetLoanType implements generic.LoanTypeRepository.
func (m *Memory) GetLoanType(_ context.Context, id generic.LoanType) (generic.LoanTypeInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lt, ok := m.loanTypes[id]
	if !ok {
		return generic.LoanTypeInfo{}, generic.LoanTypeNotFound(id)
	}
	return lt, nil
}

// ListLoanTypes implements generic.LoanTypeRepository.
func (m *Memory) ListLoanTypes(_ context.Context) ([]generic.LoanTypeInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]generic.LoanTypeInfo, 0, len(m.loanTypes))
	for _, lt := range m.loanTypes {
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
