package repository

import (
	"context"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"gorm.io/gorm"
)

type TaskRepository struct {
	*baseRepository
}

type TaskFilter struct {
	Status   string
	Priority string
}

func (tr TaskRepository) List(ctx context.Context, tx *gorm.DB, filter TaskFilter) ([]model.Task, error) {
	tr.logger.Debugf("List tasks with filter: %+v \n", filter)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var tasks []model.Task
	if err := query.Order("end_date asc").Order("id asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (tr TaskRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Task, error) {
	tr.logger.Debugf("Get task by id: %d \n", id)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var task model.Task
	if err := db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &task, nil
}

func (tr TaskRepository) Create(ctx context.Context, tx *gorm.DB, task *model.Task) error {
	tr.logger.Debugf("Create task: %s \n", task.Title)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if task.Status == "" {
		task.Status = constant.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = constant.PriorityMedium
	}

	return database.TranslateError(db.WithContext(ctx).Create(task).Error)
}

// Update overwrites every editable column of the task with id task.ID.
func (tr TaskRepository) Update(ctx context.Context, tx *gorm.DB, task *model.Task) error {
	tr.logger.Debugf("Update task: %d \n", task.ID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Task{BaseModel: model.BaseModel{ID: task.ID}}).
		Select("title", "assignee", "status", "priority", "start_date", "end_date", "deadline", "description").
		Updates(task)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("task", task.ID)
	}
	return nil
}

func (tr TaskRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	tr.logger.Debugf("Delete task: %d \n", id)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Delete(&model.Task{}, id)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("task", id)
	}
	return nil
}
