package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dashboardNow = time.Date(2024, time.June, 10, 14, 0, 0, 0, time.UTC)

func newDashboardEnv(t *testing.T) testEnv {
	env := newTestEnv(t)
	env.repo.Dashboard.now = func() time.Time { return dashboardNow }
	return env
}

func TestDashboardStats(t *testing.T) {
	env := newDashboardEnv(t)
	today := model.DateOf(dashboardNow)

	tasks := []*model.Task{
		{Title: "due today", EndDate: today},
		{Title: "deadline in 3 days", EndDate: today.AddDays(30), Deadline: today.AddDays(3)},
		{Title: "overdue", EndDate: today.AddDays(-2), Status: constant.TaskStatusProgress},
		{Title: "done and overdue", EndDate: today.AddDays(-5), Status: constant.TaskStatusDone},
	}
	for _, task := range tasks {
		require.NoError(t, env.repo.Task.Create(env.ctx, nil, task))
	}

	for _, exp := range []*model.Experiment{
		{Title: "running", StartDate: today.AddDays(-20)},
		{Title: "recent done", Status: constant.ExperimentStatusDone, StartDate: today.AddDays(-3)},
		{Title: "old done", Status: constant.ExperimentStatusDone, StartDate: today.AddDays(-30)},
	} {
		require.NoError(t, env.repo.Experiment.Create(env.ctx, nil, exp))
	}

	r := env.resource(t, "Ethanol", 100)
	_, err := env.repo.Resource.RecordUsage(env.ctx, nil, r.ID, 95, "", env.user.ID)
	require.NoError(t, err)

	stats, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, TaskStats{Total: 4, Done: 1, Progress: 25}, stats.Tasks)
	assert.Equal(t, ExperimentStats{Active: 1, Completed7d: 1}, stats.Experiments)
	assert.Equal(t, DeadlineStats{Today: 1, Week: 2, Overdue: 1}, stats.Deadlines)
	assert.Equal(t, ResourceStats{Critical: 1}, stats.Resources)
}

func TestDashboardStatsAreMemoized(t *testing.T) {
	env := newDashboardEnv(t)
	env.repo.Dashboard.memo.Bucket = time.Hour
	env.repo.Dashboard.memo.Now = func() time.Time { return dashboardNow }

	first, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, first.Tasks.Total)

	require.NoError(t, env.repo.Task.Create(env.ctx, nil, &model.Task{Title: "new"}))

	cached, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, cached.Tasks.Total, "same bucket serves the cached value")

	env.repo.Dashboard.InvalidateStats()
	fresh, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.Tasks.Total)
}

func TestDashboardStatsInsideTransaction(t *testing.T) {
	env := newDashboardEnv(t)
	env.repo.Dashboard.memo.Bucket = time.Hour
	env.repo.Dashboard.memo.Now = func() time.Time { return dashboardNow }

	cached, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, cached.Tasks.Total)

	errRollback := errors.New("rollback")
	err = env.repo.DB.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, env.repo.Task.Create(env.ctx, tx, &model.Task{Title: "uncommitted"}))

		inTx, err := env.repo.Dashboard.Stats(env.ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), inTx.Tasks.Total, "a transaction sees its own writes")
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	after, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, after.Tasks.Total, "stats from a transaction are not cached")

	env.repo.Dashboard.InvalidateStats()
	fresh, err := env.repo.Dashboard.Stats(env.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, fresh.Tasks.Total)
}

func TestCharts(t *testing.T) {
	env := newDashboardEnv(t)

	for _, task := range []*model.Task{
		{Title: "a", Status: constant.TaskStatusTodo, Priority: constant.PriorityHigh, StartDate: model.NewDate(2024, time.May, 3)},
		{Title: "b", Status: constant.TaskStatusTodo, Priority: constant.PriorityLow, StartDate: model.NewDate(2024, time.May, 1)},
		{Title: "c", Status: constant.TaskStatusReview, Priority: constant.PriorityHigh, StartDate: model.NewDate(2024, time.May, 2)},
	} {
		require.NoError(t, env.repo.Task.Create(env.ctx, nil, task))
	}

	distribution, err := env.repo.Dashboard.TaskDistribution(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &Chart{Labels: []string{"review", "todo"}, Data: []int64{1, 2}}, distribution)

	priority, err := env.repo.Dashboard.TaskPriority(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &Chart{Labels: []string{"high", "low"}, Data: []int64{2, 1}}, priority)

	gantt, err := env.repo.Dashboard.TasksGantt(env.ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 3, gantt.Total)
	assert.Equal(t, "b", gantt.Tasks[0].Title)
	assert.Equal(t, "#22c55e", gantt.Tasks[0].Color)
	assert.Equal(t, 75, gantt.Tasks[1].Progress)
	assert.Equal(t, "#ef4444", gantt.Tasks[1].Color)
	assert.Equal(t, 0, gantt.Tasks[2].Progress)

	for _, start := range []model.Date{
		model.NewDate(2024, time.May, 20),
		model.NewDate(2024, time.May, 28),
		model.NewDate(2024, time.January, 15),
		model.NewDate(2023, time.November, 30),
	} {
		require.NoError(t, env.repo.Experiment.Create(env.ctx, nil, &model.Experiment{Title: "exp", StartDate: start}))
	}

	timeline, err := env.repo.Dashboard.ExperimentsTimeline(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &Chart{Labels: []string{"2024-01", "2024-05"}, Data: []int64{1, 2}}, timeline)
}

func TestGanttHelpers(t *testing.T) {
	tests := []struct {
		status   string
		progress int
	}{
		{constant.TaskStatusDone, 100},
		{constant.TaskStatusReview, 75},
		{constant.TaskStatusProgress, 50},
		{constant.TaskStatusTodo, 0},
		{"pending", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.progress, ganttProgress(tt.status), tt.status)
	}

	assert.Equal(t, "#f59e0b", ganttColor(constant.PriorityMedium))
	assert.Equal(t, "#22c55e", ganttColor(""))
}
