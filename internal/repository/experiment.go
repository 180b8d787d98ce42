package repository

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"gorm.io/gorm"
)

type ExperimentRepository struct {
	*baseRepository
}

type ExperimentFilter struct {
	Status     string
	CategoryID *uint
}

var experimentEditableColumns = []string{
	"title", "protocol_type", "assignee", "status", "start_date", "end_date", "description", "results",
	"priority", "tags", "experiment_number", "hypothesis", "objectives", "observations", "conclusion",
	"success_status", "next_steps", "files_link", "cost", "category_id",
}

func (er ExperimentRepository) List(ctx context.Context, tx *gorm.DB, filter ExperimentFilter) ([]model.Experiment, error) {
	er.logger.Debugf("List experiments with filter: %+v \n", filter)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Experiment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var experiments []model.Experiment
	if err := query.Order("start_date desc").Order("id desc").Find(&experiments).Error; err != nil {
		return nil, err
	}
	return experiments, nil
}

func (er ExperimentRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Experiment, error) {
	er.logger.Debugf("Get experiment by id: %d \n", id)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var experiment model.Experiment
	if err := db.WithContext(ctx).First(&experiment, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &experiment, nil
}

func (er ExperimentRepository) validateCategory(ctx context.Context, tx *gorm.DB, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	return er.graph.ValidateParentExists(ctx, tx, hierarchy.KindExperiment, *categoryID)
}

// Create stores the experiment after checking its category, if any. An empty
// experiment number is replaced by a generated one.
func (er ExperimentRepository) Create(ctx context.Context, tx *gorm.DB, experiment *model.Experiment) error {
	er.logger.Debugf("Create experiment: %s \n", experiment.Title)

	db := er.getDB(tx)
	if experiment.Status == "" {
		experiment.Status = constant.ExperimentStatusProgress
	}
	if experiment.Priority == "" {
		experiment.Priority = constant.PriorityMedium
	}
	if experiment.ExperimentNumber == "" {
		number, err := util.GenerateExperimentNumber()
		if err != nil {
			return err
		}
		experiment.ExperimentNumber = number
	}

	return er.withTx(db, func(tx *gorm.DB) error {
		if err := er.validateCategory(ctx, tx, experiment.CategoryID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return tx.WithContext(ctx).Create(experiment).Error
	})
}

func (er ExperimentRepository) Update(ctx context.Context, tx *gorm.DB, experiment *model.Experiment) error {
	er.logger.Debugf("Update experiment: %d \n", experiment.ID)

	db := er.getDB(tx)
	return er.withTx(db, func(tx *gorm.DB) error {
		if err := er.validateCategory(ctx, tx, experiment.CategoryID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		result := tx.WithContext(ctx).Model(&model.Experiment{BaseModel: model.BaseModel{ID: experiment.ID}}).
			Select(experimentEditableColumns).
			Updates(experiment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("experiment", experiment.ID)
		}
		return nil
	})
}

func (er ExperimentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	er.logger.Debugf("Delete experiment: %d \n", id)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Delete(&model.Experiment{}, id)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("experiment", id)
	}
	return nil
}

// AttachFile uploads an attachment to object storage and points files_link at it.
func (er ExperimentRepository) AttachFile(ctx context.Context, tx *gorm.DB, id uint, fileHeader *multipart.FileHeader) (*model.Experiment, error) {
	if er.s3 == nil {
		return nil, apperror.ErrStorageUnavailable
	}

	er.logger.Debugf("Attach file %s to experiment: %d \n", fileHeader.Filename, id)

	experiment, err := er.GetById(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	info, err := util.UploadFileToS3ByFileHeader(ctx, fileHeader, &util.FileUploadOptions{
		DirectoryPath: util.GetExperimentDirectoryPath(id),
		UniquePrefix:  true,
		Bucket:        er.bucket,
		S3:            er.s3,
	})
	if err != nil {
		return nil, err
	}

	link := util.FormatStorageLink(info.Bucket, info.Key)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()
	if err := db.WithContext(ctx).Model(experiment).Update("files_link", link).Error; err != nil {
		return nil, database.TranslateError(err)
	}

	experiment.FilesLink = link
	return experiment, nil
}

// FileURL returns a link the browser can open. Links to our own bucket are
// presigned for one hour; anything else is returned as entered.
func (er ExperimentRepository) FileURL(ctx context.Context, experiment *model.Experiment) (string, error) {
	bucket, key, ok := util.ParseStorageLink(experiment.FilesLink)
	if !ok {
		return experiment.FilesLink, nil
	}
	if er.s3 == nil {
		return "", apperror.ErrStorageUnavailable
	}

	presignedURL, err := er.s3.PresignedGetObject(ctx, bucket, key, time.Minute*60, nil)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
