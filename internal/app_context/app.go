package appcontext

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/mailer"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Application is built once in cmd/api and shared by every middleware and
// controller.
type Application struct {
	Config *config.Config
	Logger *zap.SugaredLogger

	// Repository owns the database handle. Tasks, experiments, resources,
	// the project hierarchy, comments and dashboards go through it.
	Repository *repository.Repository

	// Mailer delivers low stock alerts. Send returns mailer.ErrDisabled when
	// no provider is configured.
	Mailer mailer.Client

	// JWTService signs and verifies access and refresh tokens.
	JWTService auth.JWTInterface

	// S3 stores experiment attachments. nil when MINIO_ENDPOINT is unset.
	S3 *minio.Client
}
