package repository

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/pkg/labkit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceRepository struct {
	*baseRepository
}

type ResourceFilter struct {
	Category string
	Status   string
}

// UsageResult is the outcome of a recorded usage. Alert is set when the
// usage moved the resource into the critical or empty band.
type UsageResult struct {
	Usage    *model.ResourceUsage
	Resource *model.Resource
	Alert    bool
}

func needsAlert(status constant.ResourceStatus) bool {
	return status == constant.ResourceStatusCritical || status == constant.ResourceStatusEmpty
}

func (rr ResourceRepository) List(ctx context.Context, tx *gorm.DB, filter ResourceFilter) ([]model.Resource, error) {
	rr.logger.Debugf("List resources with filter: %+v \n", filter)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Resource{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var resources []model.Resource
	if err := query.Order("name asc").Order("id asc").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (rr ResourceRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Resource, error) {
	rr.logger.Debugf("Get resource by id: %d \n", id)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var resource model.Resource
	if err := db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &resource, nil
}

// getForUpdate reads the resource inside tx, taking a row lock where the
// dialect supports one.
func (rr ResourceRepository) getForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Resource, error) {
	query := tx.WithContext(ctx)
	if database.Dialect(tx) == database.DialectPostgres {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var resource model.Resource
	if err := query.First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// Create starts the resource with a full stock: current equals initial.
func (rr ResourceRepository) Create(ctx context.Context, tx *gorm.DB, resource *model.Resource, userID uint) error {
	rr.logger.Debugf("Create resource: %s \n", resource.Name)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	resource.CurrentStock = resource.InitialStock
	resource.RefreshStatus()
	resource.CreatedBy = &userID
	resource.UpdatedBy = &userID

	return database.TranslateError(db.WithContext(ctx).Create(resource).Error)
}

// Update overwrites the descriptive columns. When the initial stock changes
// the current stock is scaled so the remaining fraction is kept.
func (rr ResourceRepository) Update(ctx context.Context, tx *gorm.DB, resource *model.Resource, userID uint) (*model.Resource, error) {
	rr.logger.Debugf("Update resource: %d \n", resource.ID)

	db := rr.getDB(tx)
	var updated *model.Resource
	err := rr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		existing, err := rr.getForUpdate(ctx, tx, resource.ID)
		if err != nil {
			return err
		}

		current := existing.CurrentStock
		if resource.InitialStock != existing.InitialStock {
			ratio := 1.0
			if existing.InitialStock > 0 {
				ratio = existing.CurrentStock / existing.InitialStock
			}
			current = resource.InitialStock * ratio
		}

		existing.Name = resource.Name
		existing.Category = resource.Category
		existing.LotNumber = resource.LotNumber
		existing.InitialStock = resource.InitialStock
		existing.CurrentStock = current
		existing.Unit = resource.Unit
		existing.UpdatedBy = &userID
		existing.RefreshStatus()

		if err := tx.WithContext(ctx).Model(existing).
			Select("name", "category", "lot_number", "initial_stock", "current_stock", "unit", "status", "updated_by", "updated_at").
			Updates(existing).Error; err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (rr ResourceRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	rr.logger.Debugf("Delete resource: %d \n", id)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Delete(&model.Resource{}, id)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("resource", id)
	}
	return nil
}

// RecordUsage takes quantity out of the stock and logs the usage in the same
// transaction. A quantity above the current stock fails with an
// *apperror.InsufficientStockError and changes nothing.
func (rr ResourceRepository) RecordUsage(ctx context.Context, tx *gorm.DB, resourceID uint, quantity float64, purpose string, userID uint) (*UsageResult, error) {
	rr.logger.Debugf("Record usage of resource %d: %v by user %d \n", resourceID, quantity, userID)

	db := rr.getDB(tx)
	var result UsageResult
	err := rr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		resource, err := rr.getForUpdate(ctx, tx, resourceID)
		if err != nil {
			return err
		}

		stockBefore := resource.CurrentStock
		if quantity > stockBefore {
			return &apperror.InsufficientStockError{Available: stockBefore, Requested: quantity, Unit: resource.Unit}
		}

		previousStatus := resource.Status
		resource.CurrentStock = stockBefore - quantity
		resource.UpdatedBy = &userID
		resource.RefreshStatus()

		usage := &model.ResourceUsage{
			ResourceID:   resourceID,
			QuantityUsed: quantity,
			Purpose:      purpose,
			StockBefore:  stockBefore,
			StockAfter:   resource.CurrentStock,
			UsedBy:       userID,
		}
		if err := tx.WithContext(ctx).Create(usage).Error; err != nil {
			return err
		}

		if err := tx.WithContext(ctx).Model(resource).
			Select("current_stock", "status", "updated_by", "updated_at").
			Updates(resource).Error; err != nil {
			return err
		}

		result = UsageResult{
			Usage:    usage,
			Resource: resource,
			Alert:    needsAlert(resource.Status) && !needsAlert(previousStatus),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UsageHistory lists the usages of a resource, newest first, with the name
// of the user who recorded each one.
func (rr ResourceRepository) UsageHistory(ctx context.Context, tx *gorm.DB, resourceID uint) ([]model.ResourceUsage, error) {
	rr.logger.Debugf("Get usage history of resource: %d \n", resourceID)

	if _, err := rr.GetById(ctx, tx, resourceID); err != nil {
		return nil, err
	}

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var usages []model.ResourceUsage
	err := db.WithContext(ctx).
		Table("resource_usage AS ru").
		Select("ru.*, u.full_name AS user_name").
		Joins("LEFT JOIN users u ON ru.used_by = u.id").
		Where("ru.resource_id = ?", resourceID).
		Order("ru.used_at desc").Order("ru.id desc").
		Scan(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// Restock adds quantity to both the current and the initial stock. An empty
// lot number keeps the previous lot.
func (rr ResourceRepository) Restock(ctx context.Context, tx *gorm.DB, resourceID uint, quantity float64, lotNumber string, userID uint) (*model.Resource, error) {
	rr.logger.Debugf("Restock resource %d: %v \n", resourceID, quantity)

	db := rr.getDB(tx)
	var restocked *model.Resource
	err := rr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		resource, err := rr.getForUpdate(ctx, tx, resourceID)
		if err != nil {
			return err
		}

		resource.CurrentStock += quantity
		resource.InitialStock += quantity
		if lotNumber != "" {
			resource.LotNumber = lotNumber
		}
		resource.UpdatedBy = &userID
		resource.RefreshStatus()

		if err := tx.WithContext(ctx).Model(resource).
			Select("current_stock", "initial_stock", "lot_number", "status", "updated_by", "updated_at").
			Updates(resource).Error; err != nil {
			return err
		}

		restocked = resource
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restocked, nil
}

// ImportCSV creates one resource per row of an inventory sheet with the
// columns name, category, lot_number, initial_stock and unit. A
// current_stock column, when present, overrides the full-stock default.
// Either every row is imported or none is.
func (rr ResourceRepository) ImportCSV(ctx context.Context, tx *gorm.DB, r io.Reader, userID uint) ([]model.Resource, error) {
	rr.logger.Debugf("Import resources from CSV by user: %d \n", userID)

	records, err := labkit.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidInput, err)
	}
	rows, err := labkit.ParseCSVToMap(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidInput, err)
	}

	resources := make([]model.Resource, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		name := strings.TrimSpace(row["name"])
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: name is required", apperror.ErrInvalidInput, line)
		}

		initial, err := parseStock(row["initial_stock"])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: initial_stock: %w", apperror.ErrInvalidInput, line, err)
		}
		current := initial
		if raw := strings.TrimSpace(row["current_stock"]); raw != "" {
			if current, err = parseStock(raw); err != nil {
				return nil, fmt.Errorf("%w: line %d: current_stock: %w", apperror.ErrInvalidInput, line, err)
			}
		}

		resource := model.Resource{
			Name:         name,
			Category:     strings.TrimSpace(row["category"]),
			LotNumber:    strings.TrimSpace(row["lot_number"]),
			InitialStock: initial,
			CurrentStock: current,
			Unit:         strings.TrimSpace(row["unit"]),
			CreatedBy:    &userID,
			UpdatedBy:    &userID,
		}
		resource.RefreshStatus()
		resources = append(resources, resource)
	}

	if len(resources) == 0 {
		return resources, nil
	}

	db := rr.getDB(tx)
	err = rr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return tx.WithContext(ctx).CreateInBatches(&resources, 100).Error
	})
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func parseStock(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative, got %v", v)
	}
	return v, nil
}

