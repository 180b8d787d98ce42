package repository

import (
	"testing"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCRUD(t *testing.T) {
	env := newTestEnv(t)

	late := &model.Task{Title: "Write report", EndDate: model.NewDate(2024, time.June, 30), Priority: constant.PriorityHigh}
	early := &model.Task{Title: "Order primers", EndDate: model.NewDate(2024, time.May, 2), Status: constant.TaskStatusDone}
	require.NoError(t, env.repo.Task.Create(env.ctx, nil, late))
	require.NoError(t, env.repo.Task.Create(env.ctx, nil, early))
	assert.Equal(t, constant.TaskStatusTodo, late.Status)
	assert.Equal(t, constant.PriorityMedium, early.Priority)

	tasks, err := env.repo.Task.List(env.ctx, nil, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Order primers", tasks[0].Title, "ordered by end date")

	tasks, err = env.repo.Task.List(env.ctx, nil, TaskFilter{Status: constant.TaskStatusTodo, Priority: constant.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, late.ID, tasks[0].ID)

	late.Status = constant.TaskStatusReview
	late.Deadline = model.NewDate(2024, time.June, 15)
	require.NoError(t, env.repo.Task.Update(env.ctx, nil, late))

	got, err := env.repo.Task.GetById(env.ctx, nil, late.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.TaskStatusReview, got.Status)
	assert.Equal(t, model.NewDate(2024, time.June, 15), got.DueDate())

	require.NoError(t, env.repo.Task.Delete(env.ctx, nil, late.ID))
	assert.ErrorIs(t, env.repo.Task.Delete(env.ctx, nil, late.ID), apperror.ErrNotFound)
	assert.ErrorIs(t, env.repo.Task.Update(env.ctx, nil, &model.Task{BaseModel: model.BaseModel{ID: 9999}, Title: "x"}), apperror.ErrNotFound)
}
