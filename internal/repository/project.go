package repository

import (
	"context"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	*baseRepository
}

type SubProjectRepository struct {
	*baseRepository
}

type CategoryRepository struct {
	*baseRepository
}

func (pr ProjectRepository) List(ctx context.Context, tx *gorm.DB, status string) ([]model.Project, error) {
	pr.logger.Debugf("List projects with status: %s \n", status)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Project{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []model.Project
	if err := query.Order("created_at desc").Order("id desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (pr ProjectRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Project, error) {
	pr.logger.Debugf("Get project by id: %d \n", id)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var project model.Project
	if err := db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &project, nil
}

func (pr ProjectRepository) Create(ctx context.Context, tx *gorm.DB, project *model.Project) error {
	pr.logger.Debugf("Create project with data: %v \n", project)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if project.Status == "" {
		project.Status = constant.ProjectStatusActive
	}

	return database.TranslateError(db.WithContext(ctx).Create(project).Error)
}

func (pr ProjectRepository) Update(ctx context.Context, tx *gorm.DB, project *model.Project) error {
	pr.logger.Debugf("Update project: %d \n", project.ID)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Project{BaseModel: model.BaseModel{ID: project.ID}}).
		Select("name", "description", "status", "start_date", "end_date", "manager").
		Updates(project)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(hierarchy.KindProject, project.ID)
	}
	return nil
}

// Delete removes the project with its sub-projects and their categories.
func (pr ProjectRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (*hierarchy.DeletionReport, error) {
	pr.logger.Debugf("Delete project: %d \n", id)

	return pr.graph.CascadeDelete(ctx, tx, hierarchy.KindProject, id)
}

type CategoryNode struct {
	model.Category
	ExperimentCount int64 `json:"experiment_count"`
}

type SubProjectNode struct {
	model.SubProject
	Categories []CategoryNode `json:"categories"`
}

type ProjectTree struct {
	model.Project
	SubProjects []SubProjectNode `json:"sub_projects"`
}

// Tree loads the project with its sub-projects, their categories and the
// number of experiments filed under each category.
func (pr ProjectRepository) Tree(ctx context.Context, tx *gorm.DB, id uint) (*ProjectTree, error) {
	pr.logger.Debugf("Get project tree: %d \n", id)

	project, err := pr.GetById(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var subProjects []model.SubProject
	if err := db.WithContext(ctx).Where("project_id = ?", id).Order("id asc").Find(&subProjects).Error; err != nil {
		return nil, err
	}

	tree := &ProjectTree{Project: *project, SubProjects: make([]SubProjectNode, 0, len(subProjects))}
	if len(subProjects) == 0 {
		return tree, nil
	}

	subProjectIDs := make([]uint, len(subProjects))
	for i, sp := range subProjects {
		subProjectIDs[i] = sp.ID
	}

	var categories []model.Category
	if err := db.WithContext(ctx).Where("sub_project_id IN ?", subProjectIDs).Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(categories))
	if len(categories) > 0 {
		categoryIDs := make([]uint, len(categories))
		for i, c := range categories {
			categoryIDs[i] = c.ID
		}

		var rows []struct {
			CategoryID uint
			Count      int64
		}
		if err := db.WithContext(ctx).Model(&model.Experiment{}).
			Select("category_id, COUNT(*) AS count").
			Where("category_id IN ?", categoryIDs).
			Group("category_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.CategoryID] = r.Count
		}
	}

	bySubProject := make(map[uint][]CategoryNode, len(subProjects))
	for _, c := range categories {
		bySubProject[c.SubProjectID] = append(bySubProject[c.SubProjectID], CategoryNode{Category: c, ExperimentCount: counts[c.ID]})
	}

	for _, sp := range subProjects {
		nodes := bySubProject[sp.ID]
		if nodes == nil {
			nodes = []CategoryNode{}
		}
		tree.SubProjects = append(tree.SubProjects, SubProjectNode{SubProject: sp, Categories: nodes})
	}

	return tree, nil
}

func (spr SubProjectRepository) List(ctx context.Context, tx *gorm.DB, projectID *uint) ([]model.SubProject, error) {
	spr.logger.Debugf("List sub projects of project: %v \n", projectID)

	db := spr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.SubProject{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var subProjects []model.SubProject
	if err := query.Order("id asc").Find(&subProjects).Error; err != nil {
		return nil, err
	}
	return subProjects, nil
}

func (spr SubProjectRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.SubProject, error) {
	spr.logger.Debugf("Get sub project by id: %d \n", id)

	db := spr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var subProject model.SubProject
	if err := db.WithContext(ctx).First(&subProject, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &subProject, nil
}

// Create fails with ErrNotFound when the parent project does not exist.
func (spr SubProjectRepository) Create(ctx context.Context, tx *gorm.DB, subProject *model.SubProject) error {
	spr.logger.Debugf("Create sub project %s in project: %d \n", subProject.Name, subProject.ProjectID)

	if subProject.Status == "" {
		subProject.Status = constant.ProjectStatusActive
	}

	return spr.withTx(spr.getDB(tx), func(tx *gorm.DB) error {
		if err := spr.graph.ValidateParentExists(ctx, tx, hierarchy.KindSubProject, subProject.ProjectID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return tx.WithContext(ctx).Create(subProject).Error
	})
}

// Update may move the sub-project to another existing project.
func (spr SubProjectRepository) Update(ctx context.Context, tx *gorm.DB, subProject *model.SubProject) error {
	spr.logger.Debugf("Update sub project: %d \n", subProject.ID)

	return spr.withTx(spr.getDB(tx), func(tx *gorm.DB) error {
		if err := spr.graph.ValidateParentExists(ctx, tx, hierarchy.KindSubProject, subProject.ProjectID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		result := tx.WithContext(ctx).Model(&model.SubProject{BaseModel: model.BaseModel{ID: subProject.ID}}).
			Select("project_id", "name", "description", "status", "start_date", "end_date", "lead").
			Updates(subProject)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(hierarchy.KindSubProject, subProject.ID)
		}
		return nil
	})
}

// Delete removes the sub-project and its categories.
func (spr SubProjectRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (*hierarchy.DeletionReport, error) {
	spr.logger.Debugf("Delete sub project: %d \n", id)

	return spr.graph.CascadeDelete(ctx, tx, hierarchy.KindSubProject, id)
}

func (cr CategoryRepository) List(ctx context.Context, tx *gorm.DB, subProjectID *uint) ([]model.Category, error) {
	cr.logger.Debugf("List categories of sub project: %v \n", subProjectID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Category{})
	if subProjectID != nil {
		query = query.Where("sub_project_id = ?", *subProjectID)
	}

	var categories []model.Category
	if err := query.Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (cr CategoryRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Category, error) {
	cr.logger.Debugf("Get category by id: %d \n", id)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var category model.Category
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &category, nil
}

// Create fails with ErrNotFound when the parent sub-project does not exist.
func (cr CategoryRepository) Create(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	cr.logger.Debugf("Create category %s in sub project: %d \n", category.Name, category.SubProjectID)

	if category.Color == "" {
		category.Color = constant.DefaultCategoryColor
	}

	return cr.withTx(cr.getDB(tx), func(tx *gorm.DB) error {
		if err := cr.graph.ValidateParentExists(ctx, tx, hierarchy.KindCategory, category.SubProjectID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return tx.WithContext(ctx).Create(category).Error
	})
}

func (cr CategoryRepository) Update(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	cr.logger.Debugf("Update category: %d \n", category.ID)

	if category.Color == "" {
		category.Color = constant.DefaultCategoryColor
	}

	return cr.withTx(cr.getDB(tx), func(tx *gorm.DB) error {
		if err := cr.graph.ValidateParentExists(ctx, tx, hierarchy.KindCategory, category.SubProjectID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		result := tx.WithContext(ctx).Model(&model.Category{BaseModel: model.BaseModel{ID: category.ID}}).
			Select("sub_project_id", "name", "description", "color").
			Updates(category)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(hierarchy.KindCategory, category.ID)
		}
		return nil
	})
}

// Delete removes the category. Experiments filed under it are kept with
// their category cleared.
func (cr CategoryRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (*hierarchy.DeletionReport, error) {
	cr.logger.Debugf("Delete category: %d \n", id)

	return cr.graph.CascadeDelete(ctx, tx, hierarchy.KindCategory, id)
}
