package export

import (
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOwnerReport(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := &models.User{ID: 1, Name: "Owner"}
	bookings := []*models.Booking{
		{ID: 7, ItemName: "Drill", BookerName: "Booker", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: models.StatusApproved},
		{ID: 6, ItemName: "Drill", BookerName: "Other", Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour), Status: models.StatusRejected},
	}
	views := []*models.ItemView{
		{
			Item:        models.Item{ID: 10, Name: "Drill", Available: true},
			NextBooking: &models.BookingView{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
			Comments:    []models.Comment{{ID: 1}},
		},
		{Item: models.Item{ID: 11, Name: "Tent"}, Comments: []models.Comment{}},
	}

	path, err := OwnerReport(t.TempDir(), owner, bookings, views, now)
	require.NoError(t, err)
	assert.Contains(t, path, "bookings_owner_1_20250301_120000.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{bookingsSheet, itemsSheet}, f.GetSheetList())

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Item", "Booker", "Start", "End", "Status"}, rows[0])
	assert.Equal(t, []string{"7", "Drill", "Booker", "2025-03-01 13:00", "2025-03-01 14:00", "APPROVED"}, rows[1])

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Drill", items[1][1])
	assert.Equal(t, "", items[1][3])
	assert.Equal(t, "2025-03-01 13:00 - 2025-03-01 14:00", items[1][4])
	assert.Equal(t, "1", items[1][5])
}
