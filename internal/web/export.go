package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/models"
)

const (
	exportSheet       = "Employees"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []any{
	"ID", "First Name", "Last Name", "Email", "Position", "Department", "Date of Joining", "Salary",
}

// export streams the employee list as a spreadsheet.
func (h *Handler) export(c *gin.Context) {
	const opn = "Handler.export"

	list, err := h.directory.List(c.Request.Context())
	if gone(c) {
		return
	}
	if err != nil {
		redirectWith(c, "/employees", "error", err.Error())
		return
	}

	book, err := buildWorkbook(list)
	if err != nil {
		h.initLogger(opn).ErrorContext(c.Request.Context(), "Failed to export employees", sl.Err(err))
		redirectWith(c, "/employees", "error", "Failed to export employees")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Data(http.StatusOK, exportContentType, book)
}

func buildWorkbook(list []models.Employee) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	if err := book.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	for i, employee := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}

		row := []any{
			employee.ID,
			employee.FirstName,
			employee.LastName,
			employee.Email,
			employee.Position,
			employee.Department,
			employee.DateOfJoining,
			employee.Salary,
		}
		if err = book.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}

	if err := book.SetColWidth(exportSheet, "A", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	return buf.Bytes(), nil
}
