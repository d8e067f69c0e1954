package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pagecraft/internal/domain"
)

const (
	ClientsSheet   = "Clients"
	OpenTasksSheet = "Open Tasks"
)

// ClientsExportHeader columns of the Clients sheet
var ClientsExportHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Status",
	"Last Contact",
	"Next Follow-up",
	"Open Tasks",
	"Notes",
}

// OpenTasksExportHeader columns of the Open Tasks sheet
var OpenTasksExportHeader = []string{
	"Title",
	"Client",
	"Status",
	"Priority",
	"Due Date",
	"Assignee",
	"Assignee Email",
}

// GenerateClientsExport writes both sheets and returns the xlsx bytes.
func GenerateClientsExport(clients []*domain.Client, openTasks []*domain.Task) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open; close explicitly on every path

	names := make(map[string]string, len(clients))
	openCount := make(map[string]int, len(clients))
	for _, c := range clients {
		names[c.ClientID] = c.Name
	}
	for _, t := range openTasks {
		if t.ClientID != nil {
			openCount[*t.ClientID]++
		}
	}

	clientRows := make([][]any, 0, len(clients))
	for _, c := range clients {
		clientRows = append(clientRows, []any{
			c.Name,
			c.Email,
			c.Phone,
			string(c.Status),
			formatTime(c.LastContactAt),
			formatTime(c.NextFollowUpAt),
			openCount[c.ClientID],
			c.Notes,
		})
	}
	taskRows := make([][]any, 0, len(openTasks))
	for _, t := range openTasks {
		client := ""
		if t.ClientID != nil {
			client = names[*t.ClientID]
		}
		taskRows = append(taskRows, []any{
			t.Title,
			client,
			string(t.Status),
			string(t.Priority),
			formatTime(t.DueDate),
			t.AssigneeName,
			t.AssigneeEmail,
		})
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#EEF2FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheet(f, ClientsSheet, ClientsExportHeader, []float64{24, 28, 16, 10, 18, 18, 11, 40}, clientRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, OpenTasksSheet, OpenTasksExportHeader, []float64{32, 24, 12, 10, 18, 20, 28}, taskRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(ClientsSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, widths []float64, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return fmt.Errorf("failed to convert column number: %w", err)
			}
			if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
