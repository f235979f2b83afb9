package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gitkudos/gitkudos/internal/models"
)

// ExportService renders the leaderboard as an Excel workbook.
type ExportService struct{}

// NewExportService creates a new ExportService
func NewExportService() *ExportService {
	return &ExportService{}
}

// Workbook builds a single-sheet workbook with one row per contributor,
// keeping the leaderboard's ascending ordering.
func (s *ExportService) Workbook(contributors []*models.Contributor) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Leaderboard"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Username", "Total Points", "Issues", "Pull Requests"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, contributor := range contributors {
		values := []interface{}{
			contributor.ID,
			contributor.Username,
			contributor.TotalPoints,
			len(contributor.Issues),
			len(contributor.PullRequests),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// Filename returns the attachment name for an export of n contributors.
func (s *ExportService) Filename(n int) string {
	return fmt.Sprintf("leaderboard-%d-contributors.xlsx", n)
}
