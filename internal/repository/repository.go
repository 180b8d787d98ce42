package repository

import (
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	jwtService auth.JWTInterface
	s3         *minio.Client
	bucket     string
	graph      *hierarchy.Graph
}

type Repository struct {
	// DB can be used for transaction. Pass the tx received from DB.Transaction
	// to the repository functions to make them part of it.
	DB         *gorm.DB
	Graph      *hierarchy.Graph
	User       *UserRepository
	JWT        *JWTRepository
	Task       *TaskRepository
	Experiment *ExperimentRepository
	Resource   *ResourceRepository
	Project    *ProjectRepository
	SubProject *SubProjectRepository
	Category   *CategoryRepository
	Comment    *CommentRepository
	Dashboard  *DashboardRepository
}

type Options struct {
	JWTService auth.JWTInterface
	// S3 is nil when object storage is not configured.
	S3     *minio.Client
	Bucket string
	// DashboardCacheBucket is the lifetime of memoized dashboard stats.
	DashboardCacheBucket time.Duration
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger, opts Options) *baseRepository {
	return &baseRepository{
		db:         db,
		logger:     logger,
		jwtService: opts.JWTService,
		s3:         opts.S3,
		bucket:     opts.Bucket,
		graph:      hierarchy.NewGraph(db, logger),
	}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger, opts Options) *Repository {
	br := newBaseRepository(db, logger, opts)
	_userRepo := &UserRepository{baseRepository: br}

	return &Repository{
		DB:         db,
		Graph:      br.graph,
		User:       _userRepo,
		JWT:        &JWTRepository{baseRepository: br, user: _userRepo},
		Task:       &TaskRepository{baseRepository: br},
		Experiment: &ExperimentRepository{baseRepository: br},
		Resource:   &ResourceRepository{baseRepository: br},
		Project:    &ProjectRepository{baseRepository: br},
		SubProject: &SubProjectRepository{baseRepository: br},
		Category:   &CategoryRepository{baseRepository: br},
		Comment:    &CommentRepository{baseRepository: br},
		Dashboard:  newDashboardRepository(br, opts.DashboardCacheBucket),
	}
}

// Note: GORM runs single write operations inside a transaction already, so
// this is only needed to group several statements.
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v", err)
	}

	return database.TranslateError(err)
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
