package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/service"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/catalog"
	"github.com/allstar-electrical/workorders/internal/coordinator"
	"github.com/allstar-electrical/workorders/internal/workorder/calendar"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

// maxUploadMemory bounds the multipart form kept in memory; larger parts
// spill to temp files.
const maxUploadMemory = 32 << 20

// Dependencies groups what the handler needs.
type Dependencies struct {
	Store       ports.WorkOrderService
	Media       ports.MediaService
	Catalog     ports.CatalogService
	Submitter   *coordinator.Submitter
	Weekly      *service.WeeklyView
	Weeks       *calendar.Resolver
	Technicians []string
}

// Handler serves the work order gateway API.
type Handler struct {
	Dependencies
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{Dependencies: deps}
}

// --- Calculators ---

// ComputeTotals prices a list of line items without storing anything.
func (h *Handler) ComputeTotals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	var res TotalsResponse
	res.Subtotal, res.Tax, res.Total = pricing.ComputeTotals(req.Items).Formatted()
	writeJSON(w, http.StatusOK, res)
}

// GetWeek resolves ?date=YYYY-MM-DD, or today, to its week number.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.Weeks.Today()
	}
	week, err := h.Weeks.WeekOfDate(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, WeekResponse{Date: date, Week: week})
}

// --- Technicians ---

func (h *Handler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TechniciansResponse{Technicians: h.Technicians})
}

// GetWeeklyView groups a technician's work orders by week.
func (h *Handler) GetWeeklyView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(h.Technicians, name) {
		writeError(w, http.StatusNotFound, "technician_not_found", name)
		return
	}
	groups, err := h.Weekly.ForTechnician(r.Context(), name)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WeeklyViewResponse{Technician: name, Weeks: groups})
}

// --- Work orders ---

func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.Store.ListFolders(r.Context())
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if folders == nil {
		folders = []string{}
	}
	writeJSON(w, http.StatusOK, FoldersResponse{WorkOrders: folders})
}

func (h *Handler) SearchWorkOrders(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query_required", "")
		return
	}
	matches, err := h.Store.SearchWorkOrders(r.Context(), query)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if matches == nil {
		matches = []entity.SearchMatch{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Matches: matches})
}

// CreateWorkOrder accepts the form as JSON, or as a multipart "workorder"
// field with attached "files", and submits it with its media as one saga.
func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	form, files, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	wo, err := form.Build(h.Weeks)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}

	slog.InfoContext(r.Context(), "submitting work order",
		"folder", wo.FolderName,
		"technician", wo.Technician,
		"week", wo.Week,
		"total", wo.TotalAfterTax,
		"media", len(files),
	)
	stored, err := h.Submitter.Submit(r.Context(), wo, files)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, WorkOrderResponse{Folder: wo.FolderName, WorkOrder: wo, Media: stored})
}

func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	wo, err := h.Store.GetWorkOrder(r.Context(), folder)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WorkOrderResponse{Folder: folder, WorkOrder: wo})
}

// UpdateWorkOrder applies an edited form to the stored work order. The date
// and folder never change; totals are recomputed from the rounded line totals.
func (h *Handler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	var form domain.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	wo, err := h.Store.GetWorkOrder(r.Context(), folder)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if err := form.ApplyEdit(wo); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	wo.FolderName = folder
	if err := h.Store.UpdateWorkOrder(r.Context(), wo); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "work order updated", "folder", folder, "total", wo.TotalAfterTax)
	writeJSON(w, http.StatusOK, WorkOrderResponse{Folder: folder, WorkOrder: wo})
}

func (h *Handler) DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteWorkOrder(r.Context(), folder); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "work order deleted", "folder", folder)
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory returns the saga log of a submission.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Submitter.History(r.Context(), folder)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "history_not_found", folder)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Folder: folder, History: rows})
}

// --- Media ---

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	items, err := h.Media.ListMedia(r.Context(), folder)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if items == nil {
		items = []entity.MediaItem{}
	}
	writeJSON(w, http.StatusOK, MediaListResponse{Media: items})
}

func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart", err.Error())
		return
	}
	files, err := readFiles(r.MultipartForm.File["files"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_file", err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "files_required", "")
		return
	}
	stored, err := h.Media.UploadMedia(r.Context(), folder, files)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{Files: stored})
}

func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}
	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "invalid_filename", filename)
		return
	}
	if err := h.Media.DeleteMedia(r.Context(), folder, filename); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Catalog ---

func (h *Handler) SearchParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.Catalog.SearchParts(r.Context(), r.URL.Query().Get("part_name"))
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	out := make([]PartSuggestion, len(parts))
	for i, p := range parts {
		out[i] = PartSuggestion{CatalogPart: p, Selection: catalog.SelectPart(p)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SearchTravel(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Catalog.SearchTravel(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	out := make([]TravelSuggestion, len(rows))
	for i, t := range rows {
		out[i] = TravelSuggestion{TravelTime: t, TravelHours: catalog.TravelHours(t)}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Helpers ---

func decodeSubmission(r *http.Request) (*domain.Form, []entity.MediaFile, error) {
	var form domain.Form
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return nil, nil, fmt.Errorf("decode work order: %w", err)
		}
		return &form, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, fmt.Errorf("parse multipart: %w", err)
	}
	raw := r.FormValue("workorder")
	if raw == "" {
		return nil, nil, errors.New(`multipart field "workorder" is required`)
	}
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return nil, nil, fmt.Errorf("decode work order: %w", err)
	}
	files, err := readFiles(r.MultipartForm.File["files"])
	if err != nil {
		return nil, nil, err
	}
	return &form, files, nil
}

func readFiles(headers []*multipart.FileHeader) ([]entity.MediaFile, error) {
	files := make([]entity.MediaFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, entity.MediaFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func folderParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	folder := chi.URLParam(r, "folder")
	if !domain.IsWorkOrderFolder(folder) {
		writeError(w, http.StatusBadRequest, "invalid_folder", folder)
		return "", false
	}
	return folder, true
}

// writeBackendError maps remote failures: missing resources are 404, the rest
// are the remote server's fault.
func (h *Handler) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "remote request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadGateway, "remote_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
