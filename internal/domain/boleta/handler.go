package boleta

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// gridColumns is the preview layout: the demographic/status columns
// followed by one column per result code under its short alias.
var gridColumns = []string{
	"codigoE", "Boleta", "FechaTomaMx", "Paciente", "Edad", "Sexo", "Expediente",
	"Recepcion", "Procesamiento", "FResultado", "FechaRechazo", "EstadoPaciente",
	"StdoBoleta", "Update", "ReferidoPor", "Id",
}

// GridColumns returns the preview column names, aliases included.
func GridColumns() []string {
	cols := make([]string, 0, len(gridColumns)+len(RecognizedCodes))
	cols = append(cols, gridColumns...)
	for _, c := range RecognizedCodes {
		cols = append(cols, c.Alias())
	}
	return cols
}

// GridRow renders a boleta as the display strings the preview shows,
// keyed by grid column name.
func (b *Boleta) GridRow() map[string]string {
	row := make(map[string]string, len(gridColumns)+len(RecognizedCodes))
	for _, col := range gridColumns {
		row[col] = b.columnValue(col)
	}
	for _, c := range RecognizedCodes {
		row[c.Alias()] = b.Results[c].String()
	}
	return row
}

// Handler exposes the presentation entry points over HTTP: a preview
// of the consolidated records and the file export, mirroring the two
// operations the operator tool offers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports", h.PreviewReport)
	api.GET("/reports/export", h.ExportReport)
	api.PUT("/orders/:id/annotation", h.UpdateAnnotation)
}

type previewResponse struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Total      int                 `json:"total"`
	Accepted   int                 `json:"accepted"`
	Incomplete bool                `json:"incomplete"`
	Anomalies  []string            `json:"anomalies,omitempty"`
	Columns    []string            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
}

func dateRange(c echo.Context) (string, string, error) {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", echo.NewHTTPError(http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		}
	}
	if from > to {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}
	return from, to, nil
}

// PreviewReport consolidates the range and returns the grid payload.
// A partial scan still returns the boletas built so far, flagged
// incomplete so the operator knows generation did not finish.
func (h *Handler) PreviewReport(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	report, genErr := h.svc.Generate(c.Request().Context(), from, to)
	rows := make([]map[string]string, 0, report.Len())
	for _, b := range report.Boletas() {
		rows = append(rows, b.GridRow())
	}
	return c.JSON(http.StatusOK, previewResponse{
		From:       from,
		To:         to,
		Total:      report.Len(),
		Accepted:   report.Accepted(),
		Incomplete: genErr != nil,
		Anomalies:  report.Anomalies,
		Columns:    GridColumns(),
		Rows:       rows,
	})
}

// ExportReport consolidates the range and returns the legacy file as a
// download. Unlike the preview, an incomplete scan refuses to export:
// the consumer must never ingest a partial file.
func (h *Handler) ExportReport(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	report, genErr := h.svc.Generate(c.Request().Context(), from, to)
	if genErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report generation incomplete; export refused")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := ExportFileName(from, to)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=windows-1252", buf.Bytes())
}

type annotationRequest struct {
	Value string `json:"value"`
}

// UpdateAnnotation writes the update annotation for an order back to
// the data source.
func (h *Handler) UpdateAnnotation(c echo.Context) error {
	var req annotationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateAnnotation(c.Request().Context(), c.Param("id"), req.Value); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportFileName is the suggested file name for a range export.
func ExportFileName(from, to string) string {
	return fmt.Sprintf("reporte_labsis_%s_a_%s.csv", from, to)
}
