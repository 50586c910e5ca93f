package results

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Repository provides database operations for BLER runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db.GetDB()}
}

// SaveRun stores a run together with its points in one transaction.
func (r *Repository) SaveRun(run *Run) error {
	if run == nil {
		return errors.New("results: run cannot be nil")
	}
	for _, p := range run.Points {
		if !p.IsValid() {
			return errors.Errorf("results: invalid point %s", p)
		}
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

// PointsFor returns every stored point for a code and list size, ordered by SNR.
func (r *Repository) PointsFor(K, E, L int) ([]Point, error) {
	var pts []Point
	err := r.db.Where("k = ? AND e = ? AND l = ?", K, E, L).Order("ebn0_db, id").Find(&pts).Error
	return pts, err
}

// LatestRun returns the most recent run with its points.
func (r *Repository) LatestRun() (*Run, error) {
	var run Run
	if err := r.db.Preload("Points").Order("id desc").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// Count returns the number of stored points.
func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&Point{}).Count(&n).Error
	return n, err
}
