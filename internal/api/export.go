package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"caravanshare/internal/domain"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Reservations"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDateLayout  = "02.01.2006"
)

var exportHeaders = []string{
	"Reservation", "Caravan", "Location", "Guest", "Guest email",
	"Start", "End", "Nights", "Total price", "Status", "Payment", "Created",
}

// handleExportHostReservations отдает бронирования хоста в виде книги XLSX
func (s *HTTPServer) handleExportHostReservations(w http.ResponseWriter, r *http.Request) {
	hostID := mux.Vars(r)["hostId"]
	reservations, err := s.services.Reservations.ListByHost(r.Context(), hostID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	f, err := buildReservationsWorkbook(reservations)
	if err != nil {
		s.fail(w, r, domain.Internal("failed to build export", err))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.fail(w, r, domain.Internal("failed to build export", err))
		return
	}

	fileName := fmt.Sprintf("reservations_%s_%s.xlsx", hostID, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", exportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context(), s.logger).Warn().Err(err).Msg("export write interrupted")
		return
	}

	logging.FromContext(r.Context(), s.logger).Info().
		Str("host_id", hostID).
		Int("rows", len(reservations)).
		Msg("reservations exported")
}

func buildReservationsWorkbook(reservations []*models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	// Переименовываем стандартный лист
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, title)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	statusStyles := map[string]int{}
	for status, color := range map[string]string{
		models.StatusConfirmed: "#E2EFDA",
		models.StatusPending:   "#FFF2CC",
		models.StatusCancelled: "#F8CBAD",
	} {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err == nil {
			statusStyles[status] = style
		}
	}

	for i, res := range reservations {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &[]interface{}{
			res.ID,
			caravanName(res),
			caravanLocation(res),
			guestName(res),
			guestEmail(res),
			res.StartDate.Format(exportDateLayout),
			res.EndDate.Format(exportDateLayout),
			models.Nights(res.StartDate, res.EndDate),
			res.TotalPrice,
			res.Status,
			paymentStatus(res),
			res.CreatedAt.Format(exportDateLayout),
		}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}

		if style, ok := statusStyles[res.Status]; ok {
			statusCell, _ := excelize.CoordinatesToCellName(10, row)
			_ = f.SetCellStyle(exportSheet, statusCell, statusCell, style)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "E", 25)
	_ = f.SetColWidth(exportSheet, "F", "L", 14)

	return f, nil
}

func caravanName(r *models.Reservation) string {
	if r.Caravan == nil {
		return ""
	}
	return r.Caravan.Name
}

func caravanLocation(r *models.Reservation) string {
	if r.Caravan == nil {
		return ""
	}
	return r.Caravan.Location
}

func guestName(r *models.Reservation) string {
	if r.Guest == nil {
		return ""
	}
	return r.Guest.Name
}

func guestEmail(r *models.Reservation) string {
	if r.Guest == nil {
		return ""
	}
	return r.Guest.Email
}

func paymentStatus(r *models.Reservation) string {
	if r.Payment == nil {
		return ""
	}
	return r.Payment.Status
}
