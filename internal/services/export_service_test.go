package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/models"
)

func TestExportWorkbook(t *testing.T) {
	export := NewExportService()

	contributors := []*models.Contributor{
		{ID: 12, Username: "lin", TotalPoints: 0},
		{ID: 11, Username: "ada", TotalPoints: 5, Issues: []models.IssueView{{ID: 301}}},
	}

	workbook, err := export.Workbook(contributors)
	require.NoError(t, err)
	defer workbook.Close()

	header, err := workbook.GetCellValue("Leaderboard", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Username", header)

	first, err := workbook.GetCellValue("Leaderboard", "B2")
	require.NoError(t, err)
	assert.Equal(t, "lin", first)

	points, err := workbook.GetCellValue("Leaderboard", "C3")
	require.NoError(t, err)
	assert.Equal(t, "5", points)

	issueCount, err := workbook.GetCellValue("Leaderboard", "D3")
	require.NoError(t, err)
	assert.Equal(t, "1", issueCount)
}

func TestExportFilename(t *testing.T) {
	export := NewExportService()
	assert.Equal(t, "leaderboard-2-contributors.xlsx", export.Filename(2))
}
