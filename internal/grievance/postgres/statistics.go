package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/jmoiron/sqlx"
)

const recentGrievancesLimit = 5

// StatisticsRepository runs the aggregation queries over sqlx; queries are
// written with '?' and rebound for the driver in use.
type StatisticsRepository struct {
	db *sqlx.DB
}

func NewStatisticsRepository(db *sqlx.DB) grievance.StatisticsRepositoryAPI {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) scoped(query string, scope grievance.StatsScope) (string, []interface{}) {
	where := ""
	var args []interface{}
	if !scope.Global {
		where = " WHERE submitted_by = ?"
		args = append(args, scope.SubmittedBy)
	}
	return r.db.Rebind(fmt.Sprintf(query, where)), args
}

func (r *StatisticsRepository) Statistics(ctx context.Context, scope grievance.StatsScope) (*grievance.Statistics, error) {
	stats := &grievance.Statistics{
		ByStatus:         []grievance.StatusCount{},
		ByCategory:       []grievance.CategoryCount{},
		ByPriority:       []grievance.PriorityCount{},
		RecentGrievances: []grievance.RecentGrievance{},
	}

	q, args := r.scoped("SELECT COUNT(*) FROM grievances%s", scope)
	if err := r.db.GetContext(ctx, &stats.TotalGrievances, q, args...); err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	q, args = r.scoped("SELECT status, COUNT(*) AS count FROM grievances%s GROUP BY status ORDER BY status", scope)
	if err := r.db.SelectContext(ctx, &stats.ByStatus, q, args...); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	q, args = r.scoped("SELECT category, COUNT(*) AS count FROM grievances%s GROUP BY category ORDER BY category", scope)
	if err := r.db.SelectContext(ctx, &stats.ByCategory, q, args...); err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	q, args = r.scoped("SELECT priority, COUNT(*) AS count FROM grievances%s GROUP BY priority ORDER BY priority", scope)
	if err := r.db.SelectContext(ctx, &stats.ByPriority, q, args...); err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}

	q, args = r.scoped("SELECT id, title, status, priority, created_at FROM grievances%s ORDER BY created_at DESC LIMIT "+fmt.Sprint(recentGrievancesLimit), scope)
	if err := r.db.SelectContext(ctx, &stats.RecentGrievances, q, args...); err != nil {
		return nil, fmt.Errorf("recent grievances: %w", err)
	}

	return stats, nil
}
