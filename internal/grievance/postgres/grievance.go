package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/grievance-management/internal"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"gorm.io/gorm"
)

type GrievanceRepository struct {
	db *gorm.DB
}

func NewGrievanceRepository(db *gorm.DB) grievance.RepositoryAPI {
	return &GrievanceRepository{db: db}
}

func (r *GrievanceRepository) Create(ctx context.Context, g *grievanceDatamodel.Grievance) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GrievanceRepository) GetByID(ctx context.Context, id string) (*grievanceDatamodel.Grievance, error) {
	var g grievanceDatamodel.Grievance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrGrievanceNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GrievanceRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&grievanceDatamodel.Grievance{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update writes all fields in a single statement.
func (r *GrievanceRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&grievanceDatamodel.Grievance{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrGrievanceNotFound
	}
	return nil
}

// ListVisible turns the visibility scope into SQL. The staff branch joins
// each grievance to its submitter to compare departments.
func (r *GrievanceRepository) ListVisible(ctx context.Context, scope grievance.Scope, page grievance.Page) ([]*grievanceDatamodel.Grievance, error) {
	q := r.db.WithContext(ctx).Table("grievances AS g").Select("g.*")

	switch scope.Kind {
	case grievance.ScopeAll:
	case grievance.ScopeStaff:
		if scope.Department == "" {
			q = q.Where("g.assigned_to = ?", scope.UserID)
			break
		}
		q = q.Joins("LEFT JOIN users u ON u.id = g.submitted_by").
			Where("g.assigned_to = ? OR (u.department = ? AND g.status <> ?)",
				scope.UserID, scope.Department, grievance.StatusClosed)
	default:
		q = q.Where("g.submitted_by = ?", scope.UserID)
	}

	var rows []*grievanceDatamodel.Grievance
	err := q.Order("g.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	return rows, err
}

func (r *GrievanceRepository) List(ctx context.Context, filter grievance.FilterDTO, page grievance.Page) ([]*grievanceDatamodel.Grievance, error) {
	q := r.db.WithContext(ctx).Model(&grievanceDatamodel.Grievance{})
	for column, value := range filter.Columns() {
		q = q.Where(column+" = ?", value)
	}

	var rows []*grievanceDatamodel.Grievance
	err := q.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	return rows, err
}
