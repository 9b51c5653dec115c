package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"employee-qbe-service/pkg/client"
)

const sheetName = "Employees"

var xlsxHeaders = []string{"ID", "First Name", "Last Name", "Department", "Position", "Salary"}

// writeXLSX saves list as a single-sheet workbook with a frozen header row.
func writeXLSX(path string, list []client.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range list {
		row := []any{e.ID, e.FirstName, e.LastName, e.Department, e.Position, e.Salary}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "B", "E", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
