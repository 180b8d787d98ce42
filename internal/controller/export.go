package controller

import (
	"bytes"
	"strconv"

	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/dsnakex/Biotech-Dashboard/pkg/labkit"
	"github.com/gin-gonic/gin"
)

type ExportController struct {
	*baseController
}

var (
	taskCSVHeader       = []string{"ID", "Title", "Assignee", "Status", "Priority", "Deadline", "Description"}
	experimentCSVHeader = []string{"ID", "Title", "Protocol Type", "Assignee", "Status", "Start Date", "End Date", "Results"}
)

// writeCSV buffers the whole file so a failure can still be reported as JSON.
func (ec ExportController) writeCSV(ctx *gin.Context, filename string, header []string, rows [][]string) {
	var buf bytes.Buffer
	if err := labkit.WriteCSV(&buf, header, rows); err != nil {
		ec.respondError(ctx, "Failed to export CSV", err)
		return
	}

	util.ResponseFile(ctx, "attachment", filename, "text/csv; charset=utf-8", buf.Bytes())
}

// Tasks exports every task ordered by end date.
func (ec ExportController) Tasks(ctx *gin.Context) {
	tasks, err := ec.app.Repository.Task.List(ctx, nil, repository.TaskFilter{})
	if err != nil {
		ec.respondError(ctx, "Failed to export tasks", err)
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.Title,
			t.Assignee,
			t.Status,
			t.Priority,
			t.DueDate().String(),
			t.Description,
		})
	}

	ec.writeCSV(ctx, "tasks.csv", taskCSVHeader, rows)
}

// Experiments exports every experiment, most recently started first.
func (ec ExportController) Experiments(ctx *gin.Context) {
	experiments, err := ec.app.Repository.Experiment.List(ctx, nil, repository.ExperimentFilter{})
	if err != nil {
		ec.respondError(ctx, "Failed to export experiments", err)
		return
	}

	rows := make([][]string, 0, len(experiments))
	for _, e := range experiments {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Title,
			e.ProtocolType,
			e.Assignee,
			e.Status,
			e.StartDate.String(),
			e.EndDate.String(),
			e.Results,
		})
	}

	ec.writeCSV(ctx, "experiments.csv", experimentCSVHeader, rows)
}
