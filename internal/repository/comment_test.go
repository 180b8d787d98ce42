package repository

import (
	"testing"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentOnMissingEntityIsAccepted(t *testing.T) {
	env := newTestEnv(t)

	comment, err := env.repo.Comment.Create(env.ctx, nil, constant.EntityExperiment, 999, env.user.ID, "Check the controls")
	require.NoError(t, err)
	assert.Equal(t, env.user.FullName, comment.UserFullName)

	page, err := env.repo.Comment.ListByEntity(env.ctx, nil, constant.EntityExperiment, 999, 1, 10)
	require.NoError(t, err)
	assert.False(t, page.EntityExists)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "Check the controls", page.Comments[0].Content)
}

func TestCommentPagination(t *testing.T) {
	env := newTestEnv(t)
	exp := env.experiment(t, "PCR-001", nil)

	for _, content := range []string{"first", "second", "third"} {
		_, err := env.repo.Comment.Create(env.ctx, nil, constant.EntityExperiment, exp.ID, env.user.ID, content)
		require.NoError(t, err)
	}
	// same id, different kind
	_, err := env.repo.Comment.Create(env.ctx, nil, constant.EntityTask, exp.ID, env.user.ID, "elsewhere")
	require.NoError(t, err)

	page, err := env.repo.Comment.ListByEntity(env.ctx, nil, constant.EntityExperiment, exp.ID, 2, 2)
	require.NoError(t, err)
	assert.True(t, page.EntityExists)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPage)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "third", page.Comments[0].Content)

	page, err = env.repo.Comment.ListByEntity(env.ctx, nil, constant.EntityExperiment, exp.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), page.Page)
	assert.Equal(t, uint(constant.DefaultPageSize), page.PageSize)
	assert.Len(t, page.Comments, 3)

	_, err = env.repo.Comment.ListByEntity(env.ctx, nil, "plate", 1, 1, 10)
	assert.Error(t, err)
}

func TestCommentPermissions(t *testing.T) {
	env := newTestEnv(t)
	other := testutil.CreateUser(t, env.repo.DB, "other@lab.test", constant.UserRoleResearcher)
	admin := testutil.CreateUser(t, env.repo.DB, "admin@lab.test", constant.UserRoleAdmin)
	manager := testutil.CreateUser(t, env.repo.DB, "manager@lab.test", constant.UserRoleManager)

	comment, err := env.repo.Comment.Create(env.ctx, nil, constant.EntityTask, 1, env.user.ID, "draft")
	require.NoError(t, err)

	_, err = env.repo.Comment.Update(env.ctx, nil, comment.ID, other.ID, "hijack")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := env.repo.Comment.Update(env.ctx, nil, comment.ID, env.user.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	assert.ErrorIs(t, env.repo.Comment.Delete(env.ctx, nil, comment.ID, other.ID, other.Role), apperror.ErrForbidden)
	assert.ErrorIs(t, env.repo.Comment.Delete(env.ctx, nil, comment.ID, manager.ID, manager.Role), apperror.ErrForbidden)
	require.NoError(t, env.repo.Comment.Delete(env.ctx, nil, comment.ID, admin.ID, admin.Role))
	assert.ErrorIs(t, env.repo.Comment.Delete(env.ctx, nil, comment.ID, admin.ID, admin.Role), apperror.ErrNotFound)

	own, err := env.repo.Comment.Create(env.ctx, nil, constant.EntityTask, 1, env.user.ID, "mine")
	require.NoError(t, err)
	require.NoError(t, env.repo.Comment.Delete(env.ctx, nil, own.ID, env.user.ID, env.user.Role))

	_, err = env.repo.Comment.Create(env.ctx, nil, constant.EntityTask, 1, 9999, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
