package repository

import (
	"context"
	"testing"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo *Repository
	ctx  context.Context
	user *model.User
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db := testutil.MigratedDB(t)
	logger := testutil.Logger()
	jwtService := auth.NewJwt(config.AuthConfig{
		JWT_SECRET:      "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, logger)

	repo := NewRepository(db, logger, Options{JWTService: jwtService})
	return testEnv{
		repo: repo,
		ctx:  context.Background(),
		user: testutil.CreateUser(t, db, "researcher@lab.test", constant.UserRoleResearcher),
	}
}

func (e testEnv) project(t *testing.T, name string) *model.Project {
	t.Helper()
	p := &model.Project{Name: name}
	require.NoError(t, e.repo.Project.Create(e.ctx, nil, p))
	return p
}

func (e testEnv) subProject(t *testing.T, projectID uint, name string) *model.SubProject {
	t.Helper()
	sp := &model.SubProject{ProjectID: projectID, Name: name}
	require.NoError(t, e.repo.SubProject.Create(e.ctx, nil, sp))
	return sp
}

func (e testEnv) category(t *testing.T, subProjectID uint, name string) *model.Category {
	t.Helper()
	c := &model.Category{SubProjectID: subProjectID, Name: name}
	require.NoError(t, e.repo.Category.Create(e.ctx, nil, c))
	return c
}

func (e testEnv) experiment(t *testing.T, title string, categoryID *uint) *model.Experiment {
	t.Helper()
	exp := &model.Experiment{Title: title, StartDate: model.NewDate(2024, time.March, 1), CategoryID: categoryID}
	require.NoError(t, e.repo.Experiment.Create(e.ctx, nil, exp))
	return exp
}

func uintPtr(v uint) *uint {
	return &v
}
