// Package web serves the attendance dashboard and its JSON API. It is meant
// for a trusted network and has no authentication.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"shiftlog/attendance"
	"shiftlog/config"
	"shiftlog/internal/timeutil"
	"shiftlog/output"
	"shiftlog/schedule"
	"shiftlog/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxBodyBytes = 1 << 20

type Server struct {
	store  storage.Store
	cfg    config.Config
	parser *schedule.Parser
	logger *zap.Logger
	now    func() time.Time
	routes http.Handler
}

type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type memoRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type parseRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type recomputeRequest struct {
	Record attendance.Record `json:"record"`
	Field  string            `json:"field"`
	Value  string            `json:"value"`
}

type statsResponse struct {
	Period  output.Period          `json:"period"`
	From    string                 `json:"from"`
	To      string                 `json:"to"`
	Members []output.MemberSummary `json:"members"`
}

type optionsResponse struct {
	Branches []string `json:"branches"`
	Names    []string `json:"names"`
}

func NewServer(store storage.Store, cfg config.Config, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		store:  store,
		cfg:    cfg,
		parser: schedule.FromConfig(cfg.Parser),
		logger: logger,
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /week", server.handleWeekPicker)
	mux.HandleFunc("GET /week/{date}", server.handleWeek)
	mux.HandleFunc("GET /month", server.handleMonthPicker)
	mux.HandleFunc("GET /month/{month}", server.handleMonth)
	mux.HandleFunc("GET /api/attendance", server.handleAPIList)
	mux.HandleFunc("POST /api/attendance", server.handleAPICreate)
	mux.HandleFunc("PATCH /api/attendance/{id}", server.handleAPIPatch)
	mux.HandleFunc("DELETE /api/attendance/{id}", server.handleAPIDelete)
	mux.HandleFunc("PUT /api/attendance/{id}/memo", server.handleAPIMemo)
	mux.HandleFunc("POST /api/parse", server.handleAPIParse)
	mux.HandleFunc("POST /api/recompute", server.handleAPIRecompute)
	mux.HandleFunc("GET /api/stats", server.handleAPIStats)
	mux.HandleFunc("GET /api/options", server.handleAPIOptions)
	mux.HandleFunc("GET /api/records", server.handleAPIRecords)
	server.routes = withRequestID(withAccessLog(logger, mux))

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/week/"+s.now().Format(timeutil.ISODate), http.StatusFound)
}

func (s *Server) handleWeekPicker(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if _, err := timeutil.ParseISODate(date); err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/week/"+date, http.StatusFound)
}

func (s *Server) handleMonthPicker(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		http.Redirect(w, r, "/month/"+s.now().Format("2006-01"), http.StatusFound)
		return
	}
	if _, err := parseMonth(month); err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/month/"+month, http.StatusFound)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseISODate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	s.renderDashboard(w, r, output.PeriodWeek, day)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	monthStart, err := parseMonth(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	s.renderDashboard(w, r, output.PeriodMonth, monthStart)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, period output.Period, day time.Time) {
	sortKey, err := output.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.store.ListRecords()
	if err != nil {
		s.logger.Error("list records", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := BuildDashboard(records, period, day, s.now(), sortKey)
	if err := renderTemplate(w, "dashboard.html", view); err != nil {
		s.logger.Error("render dashboard", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords()
	if err != nil {
		s.storageError(w, r, "list records", err)
		return
	}
	writeAPI(w, http.StatusOK, records)
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	records, err := decodeRecords(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(records) == 0 {
		writeAPIError(w, http.StatusBadRequest, "no records given")
		return
	}

	for i := range records {
		records[i].ID = 0
		records[i] = attendance.FillDerived(records[i])
		if err := attendance.Validate(records[i]); err != nil {
			writeAPIError(w, http.StatusBadRequest, fmt.Sprintf("record %d: %v", i, err))
			return
		}
	}

	ids, err := s.store.InsertRecords(records)
	if err != nil {
		s.storageError(w, r, "insert records", err)
		return
	}
	s.logger.Info("records inserted", zap.Int("count", len(ids)), zap.String("request_id", RequestIDFrom(r.Context())))
	writeAPI(w, http.StatusCreated, map[string][]int64{"ids": ids})
}

// handleAPIPatch applies a partial update. Clock edits re-derive the dependent
// minute fields.
func (s *Server) handleAPIPatch(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var body map[string]string
	if err := decodeJSON(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	edits := make(attendance.Patch, len(body))
	for key, value := range body {
		field, err := attendance.ParseField(key)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		edits[field] = strings.TrimSpace(value)
	}

	current, err := s.store.GetRecord(id)
	if err != nil {
		s.storageError(w, r, "get record", err)
		return
	}

	edited := attendance.ApplyEdits(current, edits)
	if err := attendance.Validate(edited); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateRecordIf(id, current, attendance.Diff(current, edited))
	if err != nil {
		s.storageError(w, r, "update record", err)
		return
	}
	writeAPI(w, http.StatusOK, updated)
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := s.store.DeleteRecord(id); err != nil {
		s.storageError(w, r, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIMemo(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var body memoRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := schedule.ParseTagKind(body.Kind)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetRecord(id)
	if err != nil {
		s.storageError(w, r, "get record", err)
		return
	}

	memo := schedule.SetTag(current.Memo, kind, body.Value)
	if memo == current.Memo {
		writeAPI(w, http.StatusOK, current)
		return
	}
	updated, err := s.store.UpdateRecordIf(id, current, attendance.Patch{attendance.FieldMemo: memo})
	if err != nil {
		s.storageError(w, r, "update memo", err)
		return
	}
	writeAPI(w, http.StatusOK, updated)
}

func (s *Server) handleAPIParse(w http.ResponseWriter, r *http.Request) {
	var body parseRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := strings.TrimSpace(body.Date)
	if date == "" {
		date = s.now().Format(timeutil.ISODate)
	}
	if _, err := timeutil.ParseISODate(date); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)")
		return
	}

	writeAPI(w, http.StatusOK, s.parser.Parse(body.Text, date))
}

func (s *Server) handleAPIRecompute(w http.ResponseWriter, r *http.Request) {
	var body recomputeRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	field, err := attendance.ParseField(body.Field)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeAPI(w, http.StatusOK, attendance.Edit(body.Record, field, strings.TrimSpace(body.Value)))
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period, err := output.ParsePeriod(query.Get("period"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	day, err := s.dayParam(query.Get("date"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)")
		return
	}

	records, err := s.store.ListRecords()
	if err != nil {
		s.storageError(w, r, "list records", err)
		return
	}

	from, to := output.PeriodRange(period, day)
	writeAPI(w, http.StatusOK, statsResponse{
		Period:  period,
		From:    from.Format(timeutil.ISODate),
		To:      to.Format(timeutil.ISODate),
		Members: output.BuildMemberSummaries(records, from, to),
	})
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	resp := optionsResponse{
		Branches: append([]string{}, s.cfg.Directory.Branches...),
		Names:    append([]string{}, s.cfg.Directory.Names...),
	}
	writeAPI(w, http.StatusOK, resp)
}

func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sortKey, err := output.ParseSortKey(query.Get("sort"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.ListRecords()
	if err != nil {
		s.storageError(w, r, "list records", err)
		return
	}

	fromRaw, toRaw := strings.TrimSpace(query.Get("from")), strings.TrimSpace(query.Get("to"))
	if fromRaw != "" || toRaw != "" {
		from, to := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
		if fromRaw != "" {
			if from, err = timeutil.ParseISODate(fromRaw); err != nil {
				writeAPIError(w, http.StatusBadRequest, "invalid from date (expected YYYY-MM-DD)")
				return
			}
		}
		if toRaw != "" {
			if to, err = timeutil.ParseISODate(toRaw); err != nil {
				writeAPIError(w, http.StatusBadRequest, "invalid to date (expected YYYY-MM-DD)")
				return
			}
		}
		records = output.FilterRecords(records, from, to)
	}

	output.SortRecords(records, sortKey)
	writeAPI(w, http.StatusOK, records)
}

func (s *Server) dayParam(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return timeutil.StartOfDay(s.now()), nil
	}
	return timeutil.ParseISODate(value)
}

// storageError maps a store failure to a response. Missing records are 404,
// everything else is logged and reported as 500.
func (s *Server) storageError(w http.ResponseWriter, r *http.Request, action string, err error) {
	if errors.Is(err, storage.ErrRecordNotFound) {
		writeAPIError(w, http.StatusNotFound, "record not found")
		return
	}
	if errors.Is(err, storage.ErrRecordChanged) {
		writeAPIError(w, http.StatusConflict, "record changed concurrently, reload and retry")
		return
	}
	s.logger.Error(action, zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
	writeAPIError(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", action, err))
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtMinutes": timeutil.FormatMinutes,
		"minutes": func(value string) int {
			n, _ := attendance.Minutes(value)
			return n
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

func parseMonth(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartOfDay(parsed), nil
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

// decodeRecords accepts a single record object or an array of them.
func decodeRecords(r *http.Request) ([]attendance.Record, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if trimmed[0] == '[' {
		var records []attendance.Record
		if err := decoder.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var rec attendance.Record
	if err := decoder.Decode(&rec); err != nil {
		return nil, err
	}
	return []attendance.Record{rec}, nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPI(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Error: message})
}
