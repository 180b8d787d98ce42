package repository

import (
	"strings"
	"testing"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperimentCreateValidatesCategory(t *testing.T) {
	env := newTestEnv(t)

	err := env.repo.Experiment.Create(env.ctx, nil, &model.Experiment{Title: "PCR-001", CategoryID: uintPtr(42)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var count int64
	require.NoError(t, env.repo.DB.Model(&model.Experiment{}).Count(&count).Error)
	assert.Zero(t, count)

	uncategorised := env.experiment(t, "Western blot", nil)
	assert.Nil(t, uncategorised.CategoryID)
}

func TestExperimentDefaults(t *testing.T) {
	env := newTestEnv(t)

	exp := &model.Experiment{
		Title: "PCR-001",
		Tags:  []string{"pcr", "cell-line-a"},
		Cost:  decimal.NewNullDecimal(decimal.RequireFromString("125.50")),
	}
	require.NoError(t, env.repo.Experiment.Create(env.ctx, nil, exp))
	assert.True(t, strings.HasPrefix(exp.ExperimentNumber, "EXP-"))
	assert.Len(t, exp.ExperimentNumber, 12)
	assert.Equal(t, constant.ExperimentStatusProgress, exp.Status)

	got, err := env.repo.Experiment.GetById(env.ctx, nil, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pcr", "cell-line-a"}, []string(got.Tags))
	require.True(t, got.Cost.Valid)
	assert.True(t, got.Cost.Decimal.Equal(decimal.RequireFromString("125.5")))

	given := &model.Experiment{Title: "Manual", ExperimentNumber: "LAB-7"}
	require.NoError(t, env.repo.Experiment.Create(env.ctx, nil, given))
	assert.Equal(t, "LAB-7", given.ExperimentNumber)
}

func TestExperimentListAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	p := env.project(t, "Cancer Study")
	sp := env.subProject(t, p.ID, "Cell Line A")
	assays := env.category(t, sp.ID, "Assays")

	inCategory := env.experiment(t, "PCR-001", &assays.ID)
	other := env.experiment(t, "Gel", nil)

	list, err := env.repo.Experiment.List(env.ctx, nil, ExperimentFilter{CategoryID: &assays.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inCategory.ID, list[0].ID)

	other.CategoryID = uintPtr(assays.ID + 100)
	assert.ErrorIs(t, env.repo.Experiment.Update(env.ctx, nil, other), apperror.ErrNotFound)

	other.CategoryID = &assays.ID
	other.Status = constant.ExperimentStatusDone
	other.Results = "band at 500bp"
	require.NoError(t, env.repo.Experiment.Update(env.ctx, nil, other))

	list, err = env.repo.Experiment.List(env.ctx, nil, ExperimentFilter{Status: constant.ExperimentStatusDone})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "band at 500bp", list[0].Results)
	assert.Equal(t, assays.ID, *list[0].CategoryID)

	require.NoError(t, env.repo.Experiment.Delete(env.ctx, nil, other.ID))
	assert.ErrorIs(t, env.repo.Experiment.Delete(env.ctx, nil, other.ID), apperror.ErrNotFound)
}

func TestExperimentFilesWithoutStorage(t *testing.T) {
	env := newTestEnv(t)

	exp := env.experiment(t, "PCR-001", nil)

	url, err := env.repo.Experiment.FileURL(env.ctx, &model.Experiment{FilesLink: "https://drive.example.org/pcr"})
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example.org/pcr", url)

	_, err = env.repo.Experiment.FileURL(env.ctx, &model.Experiment{FilesLink: "s3://biotech-dashboard/experiments/1/gel.png"})
	assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)

	_, err = env.repo.Experiment.AttachFile(env.ctx, nil, exp.ID, nil)
	assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
}

func TestExperimentListReadsFreeTextTags(t *testing.T) {
	env := newTestEnv(t)

	rows := map[string]string{
		"comma separated": "pcr, qpcr,",
		"empty":           "",
		"json":            `["western blot"]`,
	}
	want := map[string][]string{
		"comma separated": {"pcr", "qpcr"},
		"empty":           nil,
		"json":            {"western blot"},
	}

	ids := make(map[uint]string, len(rows))
	for title, tags := range rows {
		exp := env.experiment(t, title, nil)
		ids[exp.ID] = title
		require.NoError(t, env.repo.DB.Exec("UPDATE experiments SET tags = ? WHERE id = ?", tags, exp.ID).Error)
	}
	env.experiment(t, "no tags", nil)

	list, err := env.repo.Experiment.List(env.ctx, nil, ExperimentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 4)

	for _, exp := range list {
		title, seeded := ids[exp.ID]
		if !seeded {
			assert.Empty(t, exp.Tags)
			continue
		}
		assert.Equal(t, want[title], []string(exp.Tags), title)
	}
}
