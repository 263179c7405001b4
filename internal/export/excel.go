package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/models"
)

// Exporter writes xlsx reports for the ops team.
type Exporter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewExporter(repo domain.Repository, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{repo: repo, path: path, logger: logger}
}

var bookingHeaders = []string{
	"ID", "Customer", "Worker", "Service", "Status",
	"Offered Price", "Final Price", "Messages", "Scheduled At", "Created At",
}

// ExportBookings writes all bookings created in [startDate, endDate] to an
// xlsx file and returns its path.
func (e *Exporter) ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.repo.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		messageCount, err := e.repo.CountNegotiations(ctx, booking.ID)
		if err != nil {
			e.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("error counting negotiation messages")
			messageCount = 0
		}

		finalPrice := ""
		if booking.FinalPrice != nil {
			finalPrice = fmt.Sprintf("%.2f", *booking.FinalPrice)
		}
		scheduledAt := ""
		if booking.ScheduledAt != nil {
			scheduledAt = booking.ScheduledAt.Format("02.01.2006 15:04")
		}

		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.CustomerID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.WorkerID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.ServiceID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.OfferedPrice)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), finalPrice)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), messageCount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), scheduledAt)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))

		if styleID, err := e.statusStyle(f, booking.Status); err == nil {
			statusCell := fmt.Sprintf("E%d", row)
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "H", 14)
	_ = f.SetColWidth(sheetName, "I", "J", 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("bookings report created")
	return filePath, nil
}

// ExportWorkers writes all worker profiles to an xlsx file.
func (e *Exporter) ExportWorkers(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	workers, err := e.repo.GetWorkers(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting workers: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Workers"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Name", "Phone", "Location", "Skills", "Experience (years)", "Min Price", "Registered"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	for i, worker := range workers {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), worker.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), worker.FullName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), worker.Phone)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), worker.Location)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), strings.Join(worker.Skills, ", "))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), worker.ExperienceYears)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), worker.MinPrice)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), worker.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "B", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "H", 16)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("workers_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("workers", len(workers)).Msg("workers report created")
	return filePath, nil
}

func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	color := "#FFFFFF"
	switch status {
	case models.StatusCompleted:
		color = "#C6EFCE"
	case models.StatusCancelled:
		color = "#FFC7CE"
	case models.StatusPending, models.StatusNegotiating:
		color = "#FFEB9C"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}
