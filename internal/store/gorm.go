package store

import (
	"errors"
	"strings"

	"mini-crm/internal/access"
	"mini-crm/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DB is the gorm-backed store.
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

//
// Users
//

func (s *DB) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *DB) UserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) UserByID(id uint) (*models.User, error) {
	var u models.User
	err := s.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

//
// Customers
//

func (s *DB) CreateCustomer(c *models.Customer) error {
	return s.db.Create(c).Error
}

func (s *DB) Customers(scope access.Scope, f CustomerFilter) ([]models.Customer, int64, error) {
	q := scope.Apply(s.db.Model(&models.Customer{}))

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?",
			like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := q.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *DB) CustomerByID(scope access.Scope, id uint) (*models.Customer, error) {
	var c models.Customer
	err := scope.Apply(s.db).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DB) CustomerEmailTaken(ownerID uint, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Customer{}).
		Where("owner_id = ? AND LOWER(email) = LOWER(?)", ownerID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *DB) UpdateCustomer(c *models.Customer) error {
	return s.db.Save(c).Error
}

func (s *DB) DeleteCustomerCascade(c *models.Customer) error {
	// leads first, then the customer; a failure in between leaves the
	// customer without leads, which is the accepted failure mode
	if err := s.db.Where("customer_id = ?", c.ID).Delete(&models.Lead{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Customer{}, c.ID).Error
}

//
// Leads
//

func (s *DB) CreateLead(l *models.Lead) error {
	return s.db.Create(l).Error
}

func (s *DB) Leads(customerID uint, f LeadFilter) ([]models.Lead, int64, error) {
	q := s.db.Model(&models.Lead{}).Where("customer_id = ?", customerID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []models.Lead
	err := q.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (s *DB) LeadsForCustomer(customerID uint) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *DB) LeadByID(customerID, leadID uint) (*models.Lead, error) {
	var l models.Lead
	err := s.db.Where("customer_id = ?", customerID).First(&l, leadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *DB) UpdateLead(l *models.Lead) error {
	return s.db.Save(l).Error
}

func (s *DB) DeleteLead(l *models.Lead) error {
	return s.db.Delete(&models.Lead{}, l.ID).Error
}

//
// Analytics
//

func (s *DB) LeadsByStatus(scope access.Scope) ([]StatusCount, error) {
	var rows []StatusCount
	err := scope.Apply(s.db.Model(&models.Lead{})).
		Select("status, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_value").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return padStatusCounts(rows), nil
}

func (s *DB) Stats(scope access.Scope) (*Stats, error) {
	var st Stats
	var g errgroup.Group

	g.Go(func() error {
		return scope.Apply(s.db.Model(&models.Customer{})).Count(&st.TotalCustomers).Error
	})
	g.Go(func() error {
		return scope.Apply(s.db.Model(&models.Lead{})).Count(&st.TotalLeads).Error
	})
	g.Go(func() error {
		return scope.Apply(s.db.Model(&models.Lead{})).
			Where("status = ?", models.LeadConverted).
			Count(&st.ConvertedLeads).Error
	})
	g.Go(func() error {
		return scope.Apply(s.db.Model(&models.Lead{})).
			Where("status = ?", models.LeadConverted).
			Select("COALESCE(SUM(value), 0)").
			Scan(&st.TotalConvertedValue).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.ConversionRate = conversionRate(st.ConvertedLeads, st.TotalLeads)
	return &st, nil
}
