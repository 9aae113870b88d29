package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet = "Bookings"
	itemsSheet    = "Items"
	timeLayout    = "2006-01-02 15:04"
)

var statusColors = map[models.Status]string{
	models.StatusWaiting:  "#FFF2CC",
	models.StatusApproved: "#E2EFDA",
	models.StatusRejected: "#F8CBAD",
}

// OwnerReport writes an owner's bookings and item overview into an xlsx file
// under dir and returns its path.
func OwnerReport(dir string, owner *models.User, bookings []*models.Booking, views []*models.ItemView, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("error creating style: %w", err)
	}

	if err := writeBookings(f, header, bookings); err != nil {
		return "", err
	}
	if err := writeItems(f, header, views); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_owner_%d_%s.xlsx", owner.ID, now.Format("20060102_150405"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}

func writeBookings(f *excelize.File, header int, bookings []*models.Booking) error {
	if err := writeHeader(f, bookingsSheet, header, "ID", "Item", "Booker", "Start", "End", "Status"); err != nil {
		return err
	}

	styles := make(map[models.Status]int, len(statusColors))
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("error creating style: %w", err)
		}
		styles[status] = style
	}

	for i, b := range bookings {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			b.ID,
			b.ItemName,
			b.BookerName,
			b.Start.Format(timeLayout),
			b.End.Format(timeLayout),
			string(b.Status),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return fmt.Errorf("error writing booking %d: %w", b.ID, err)
		}
		if style, ok := styles[b.Status]; ok {
			statusCell, _ := excelize.CoordinatesToCellName(6, row)
			_ = f.SetCellStyle(bookingsSheet, statusCell, statusCell, style)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "B", "C", 25)
	_ = f.SetColWidth(bookingsSheet, "D", "E", 18)
	return nil
}

func writeItems(f *excelize.File, header int, views []*models.ItemView) error {
	if err := writeHeader(f, itemsSheet, header, "ID", "Name", "Available", "Last booking", "Next booking", "Comments"); err != nil {
		return err
	}

	for i, v := range views {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			v.ID,
			v.Name,
			v.Available,
			formatView(v.LastBooking),
			formatView(v.NextBooking),
			len(v.Comments),
		}
		if err := f.SetSheetRow(itemsSheet, cell, &values); err != nil {
			return fmt.Errorf("error writing item %d: %w", v.ID, err)
		}
	}

	_ = f.SetColWidth(itemsSheet, "B", "B", 25)
	_ = f.SetColWidth(itemsSheet, "D", "E", 35)
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) error {
	row := make([]interface{}, len(titles))
	for i, t := range titles {
		row[i] = t
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(titles), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func formatView(v *models.BookingView) string {
	if v == nil {
		return ""
	}
	return v.Start.Format(timeLayout) + " - " + v.End.Format(timeLayout)
}
