package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/travelhub/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"expense_id", "title", "spent_at", "paid_by", "currency", "value",
	"estimated", "exchange_rate", "fee_percent", "transfer",
	"participant", "share",
}

// ExportRowResponse is one row of the JSON export.
type ExportRowResponse struct {
	ExpenseID       string `json:"expense_id"`
	Title           string `json:"title"`
	SpentAt         string `json:"spent_at"`
	PaidBy          string `json:"paid_by"`
	Currency        string `json:"currency"`
	Value           string `json:"value"`
	Estimated       bool   `json:"estimated"`
	ExchangeRate    string `json:"exchange_rate"`
	FeePercent      string `json:"fee_percent"`
	Transfer        bool   `json:"transfer"`
	ParticipantName string `json:"participant"`
	Share           string `json:"share"`
}

// ExportExpenses handles GET /api/trips/{tripID}/expenses/export.
// It returns one row per expense participant. Use ?format=csv to receive a
// CSV attachment; default is JSON.
func (s *Server) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeProblem(w, http.StatusUnprocessableEntity, "validation_error", "format must be csv or json")
		return
	}

	rows, err := s.svc.Export.Export(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	if format != "csv" {
		writeJSON(w, http.StatusOK, mapSlice(rows, exportRowToResponse))
		return
	}

	body := buildCSV(rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s-expenses.csv"`, tripID))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

// buildCSV encodes rows with a header line. Writing to a bytes.Buffer cannot
// fail, so the writer's errors are ignored.
func buildCSV(rows []domain.ExpenseExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write([]string{
			r.ExpenseID,
			r.Title,
			r.SpentAt,
			r.PaidBy,
			r.Currency,
			r.Value,
			strconv.FormatBool(r.Estimated),
			r.ExchangeRate,
			r.FeePercent,
			strconv.FormatBool(r.Transfer),
			r.ParticipantName,
			r.Share,
		})
	}
	cw.Flush()
	return &buf
}

func exportRowToResponse(r domain.ExpenseExportRow) ExportRowResponse {
	return ExportRowResponse(r)
}
