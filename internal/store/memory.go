package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"mini-crm/internal/access"
	"mini-crm/internal/models"
)

// Memory is a thread-safe in-memory store implementing the Store interface.
// It exists for tests and mirrors the query semantics of the gorm store:
// case-insensitive email matching, substring search, creation-time ordering.
type Memory struct {
	mu        sync.RWMutex
	nextID    uint
	users     map[uint]models.User
	customers map[uint]models.Customer
	leads     map[uint]models.Lead
}

func NewMemory() *Memory {
	return &Memory{
		nextID:    1,
		users:     make(map[uint]models.User),
		customers: make(map[uint]models.Customer),
		leads:     make(map[uint]models.Lead),
	}
}

func (m *Memory) nextIDLocked() uint {
	id := m.nextID
	m.nextID++
	return id
}

//
// Users
//

func (m *Memory) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.nextIDLocked()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UserByID(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

//
// Customers
//

func (m *Memory) CreateCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextIDLocked()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	m.customers[c.ID] = *c
	return nil
}

func (m *Memory) Customers(scope access.Scope, f CustomerFilter) ([]models.Customer, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Customer
	for _, c := range m.customers {
		if !scope.Allows(c.OwnerID) {
			continue
		}
		if f.Search != "" && !customerMatches(c, f.Search) {
			continue
		}
		matched = append(matched, c)
	}
	sortNewestFirst(matched, func(c models.Customer) (time.Time, uint) { return c.CreatedAt, c.ID })

	total := int64(len(matched))
	return pageOf(matched, f.Page, f.Limit), total, nil
}

func customerMatches(c models.Customer, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.Name), s) ||
		strings.Contains(strings.ToLower(c.Email), s) ||
		strings.Contains(strings.ToLower(c.Company), s)
}

func (m *Memory) CustomerByID(scope access.Scope, id uint) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok || !scope.Allows(c.OwnerID) {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) CustomerEmailTaken(ownerID uint, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.customers {
		if c.OwnerID == ownerID && strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdateCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	m.customers[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCustomerCascade(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, l := range m.leads {
		if l.CustomerID == c.ID {
			delete(m.leads, id)
		}
	}
	delete(m.customers, c.ID)
	return nil
}

//
// Leads
//

func (m *Memory) CreateLead(l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = m.nextIDLocked()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	m.leads[l.ID] = *l
	return nil
}

func (m *Memory) Leads(customerID uint, f LeadFilter) ([]models.Lead, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Lead
	for _, l := range m.leads {
		if l.CustomerID != customerID {
			continue
		}
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		matched = append(matched, l)
	}
	sortNewestFirst(matched, func(l models.Lead) (time.Time, uint) { return l.CreatedAt, l.ID })

	total := int64(len(matched))
	return pageOf(matched, f.Page, f.Limit), total, nil
}

func (m *Memory) LeadsForCustomer(customerID uint) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Lead
	for _, l := range m.leads {
		if l.CustomerID == customerID {
			matched = append(matched, l)
		}
	}
	sortNewestFirst(matched, func(l models.Lead) (time.Time, uint) { return l.CreatedAt, l.ID })
	return matched, nil
}

func (m *Memory) LeadByID(customerID, leadID uint) (*models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.leads[leadID]
	if !ok || l.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *Memory) UpdateLead(l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leads[l.ID]; !ok {
		return ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	m.leads[l.ID] = *l
	return nil
}

func (m *Memory) DeleteLead(l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.leads, l.ID)
	return nil
}

//
// Analytics
//

func (m *Memory) LeadsByStatus(scope access.Scope) ([]StatusCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byStatus := make(map[models.LeadStatus]StatusCount)
	for _, l := range m.leads {
		if !scope.Allows(l.OwnerID) {
			continue
		}
		row := byStatus[l.Status]
		row.Status = l.Status
		row.Count++
		row.TotalValue += l.Value
		byStatus[l.Status] = row
	}

	rows := make([]StatusCount, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, row)
	}
	return padStatusCounts(rows), nil
}

func (m *Memory) Stats(scope access.Scope) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var st Stats
	for _, c := range m.customers {
		if scope.Allows(c.OwnerID) {
			st.TotalCustomers++
		}
	}
	for _, l := range m.leads {
		if !scope.Allows(l.OwnerID) {
			continue
		}
		st.TotalLeads++
		if l.Status == models.LeadConverted {
			st.ConvertedLeads++
			st.TotalConvertedValue += l.Value
		}
	}
	st.ConversionRate = conversionRate(st.ConvertedLeads, st.TotalLeads)
	return &st, nil
}

//
// Helpers
//

func sortNewestFirst[T any](items []T, key func(T) (time.Time, uint)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func pageOf[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
