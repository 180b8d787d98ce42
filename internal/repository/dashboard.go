package repository

import (
	"context"
	"slices"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// number of months covered by the experiments timeline
const timelineMonths = 6

type DashboardRepository struct {
	*baseRepository
	memo *util.BucketMemo[*DashboardStats]
	now  func() time.Time
}

func newDashboardRepository(br *baseRepository, bucket time.Duration) *DashboardRepository {
	return &DashboardRepository{
		baseRepository: br,
		memo:           util.NewBucketMemo[*DashboardStats](bucket),
		now:            time.Now,
	}
}

type TaskStats struct {
	Total    int64 `json:"total"`
	Done     int64 `json:"done"`
	Progress int   `json:"progress"`
}

type ExperimentStats struct {
	Active      int64 `json:"active"`
	Completed7d int64 `json:"completed_7d"`
}

type DeadlineStats struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Overdue int64 `json:"overdue"`
}

type ResourceStats struct {
	Critical int64 `json:"critical"`
}

type DashboardStats struct {
	Tasks       TaskStats       `json:"tasks"`
	Experiments ExperimentStats `json:"experiments"`
	Deadlines   DeadlineStats   `json:"deadlines"`
	Resources   ResourceStats   `json:"resources"`
}

// Chart is a labelled series, ready for the frontend chart components.
type Chart struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type GanttTask struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Assignee    string     `json:"assignee"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   model.Date `json:"start_date"`
	EndDate     model.Date `json:"end_date"`
	Progress    int        `json:"progress"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
}

type Gantt struct {
	Tasks []GanttTask `json:"tasks"`
	Total int         `json:"total"`
}

// InvalidateStats drops the memoized stats so the next call recomputes them.
func (dr *DashboardRepository) InvalidateStats() {
	dr.memo.Invalidate()
}

// Stats computes the dashboard counters. Results are shared by every caller
// within the same cache bucket; calls inside a transaction skip the cache.
func (dr *DashboardRepository) Stats(ctx context.Context, tx *gorm.DB) (*DashboardStats, error) {
	if tx != nil {
		return dr.computeStats(ctx, tx)
	}
	return dr.memo.Get(ctx, func(ctx context.Context) (*DashboardStats, error) {
		return dr.computeStats(ctx, tx)
	})
}

func (dr *DashboardRepository) computeStats(ctx context.Context, tx *gorm.DB) (*DashboardStats, error) {
	dr.logger.Debug("Compute dashboard stats")

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	today := model.DateOf(dr.now())
	weekAhead := today.AddDays(7).String()
	weekAgo := today.AddDays(-7).String()
	dueDate := "COALESCE(deadline, end_date)"

	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	if tx != nil {
		// a transaction is bound to one connection
		g.SetLimit(1)
	}

	count := func(dst *int64, m any, query string, args ...any) {
		g.Go(func() error {
			q := db.WithContext(ctx).Model(m)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dst).Error
		})
	}

	count(&stats.Tasks.Total, &model.Task{}, "")
	count(&stats.Tasks.Done, &model.Task{}, "status = ?", constant.TaskStatusDone)
	count(&stats.Experiments.Active, &model.Experiment{}, "status = ?", constant.ExperimentStatusProgress)
	count(&stats.Experiments.Completed7d, &model.Experiment{}, "status = ? AND start_date >= ?", constant.ExperimentStatusDone, weekAgo)
	count(&stats.Deadlines.Today, &model.Task{}, dueDate+" = ? AND status <> ?", today.String(), constant.TaskStatusDone)
	count(&stats.Deadlines.Week, &model.Task{}, dueDate+" BETWEEN ? AND ? AND status <> ?", today.String(), weekAhead, constant.TaskStatusDone)
	count(&stats.Deadlines.Overdue, &model.Task{}, dueDate+" < ? AND status <> ?", today.String(), constant.TaskStatusDone)
	count(&stats.Resources.Critical, &model.Resource{}, "status = ?", constant.ResourceStatusCritical)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.Tasks.Total > 0 {
		stats.Tasks.Progress = int(float64(stats.Tasks.Done) / float64(stats.Tasks.Total) * 100)
	}

	return &stats, nil
}

func (dr *DashboardRepository) countBy(ctx context.Context, tx *gorm.DB, column string) (*Chart, error) {
	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var rows []struct {
		Label string
		Count int64
	}
	if err := db.WithContext(ctx).Model(&model.Task{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	chart := &Chart{Labels: make([]string, 0, len(rows)), Data: make([]int64, 0, len(rows))}
	for _, r := range rows {
		chart.Labels = append(chart.Labels, r.Label)
		chart.Data = append(chart.Data, r.Count)
	}
	return chart, nil
}

// TaskDistribution counts tasks per status.
func (dr *DashboardRepository) TaskDistribution(ctx context.Context, tx *gorm.DB) (*Chart, error) {
	dr.logger.Debug("Chart task distribution")
	return dr.countBy(ctx, tx, "status")
}

// TaskPriority counts tasks per priority.
func (dr *DashboardRepository) TaskPriority(ctx context.Context, tx *gorm.DB) (*Chart, error) {
	dr.logger.Debug("Chart task priority")
	return dr.countBy(ctx, tx, "priority")
}

// ExperimentsTimeline counts experiments per start month over the last six
// months. Months without experiments are omitted.
func (dr *DashboardRepository) ExperimentsTimeline(ctx context.Context, tx *gorm.DB) (*Chart, error) {
	dr.logger.Debug("Chart experiments timeline")

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	since := model.DateOf(dr.now().AddDate(0, -timelineMonths, 0))

	rows, err := db.WithContext(ctx).Model(&model.Experiment{}).
		Select("start_date").
		Where("start_date >= ?", since.String()).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perMonth := make(map[string]int64)
	for rows.Next() {
		var d model.Date
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		if d.IsZero() {
			continue
		}
		perMonth[d.Time().Format("2006-01")]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	months := make([]string, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	slices.Sort(months)

	chart := &Chart{Labels: months, Data: make([]int64, 0, len(months))}
	for _, m := range months {
		chart.Data = append(chart.Data, perMonth[m])
	}
	return chart, nil
}

func ganttProgress(status string) int {
	switch status {
	case constant.TaskStatusDone:
		return 100
	case constant.TaskStatusReview:
		return 75
	case constant.TaskStatusProgress:
		return 50
	default:
		return 0
	}
}

func ganttColor(priority string) string {
	switch priority {
	case constant.PriorityHigh:
		return "#ef4444"
	case constant.PriorityMedium:
		return "#f59e0b"
	default:
		return "#22c55e"
	}
}

// TasksGantt lists every task as a gantt bar ordered by start date.
func (dr *DashboardRepository) TasksGantt(ctx context.Context, tx *gorm.DB) (*Gantt, error) {
	dr.logger.Debug("Chart tasks gantt")

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var tasks []model.Task
	if err := db.WithContext(ctx).Order("start_date asc").Order("id asc").Find(&tasks).Error; err != nil {
		return nil, err
	}

	gantt := &Gantt{Tasks: make([]GanttTask, 0, len(tasks)), Total: len(tasks)}
	for _, t := range tasks {
		gantt.Tasks = append(gantt.Tasks, GanttTask{
			ID:          t.ID,
			Title:       t.Title,
			Assignee:    t.Assignee,
			Status:      t.Status,
			Priority:    t.Priority,
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
			Progress:    ganttProgress(t.Status),
			Color:       ganttColor(t.Priority),
			Description: t.Description,
		})
	}
	return gantt, nil
}
