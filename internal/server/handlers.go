package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/chart"
	"github.com/KaramelBytes/airq-cli/internal/config"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"github.com/KaramelBytes/airq-cli/internal/metrics"
	"github.com/KaramelBytes/airq-cli/internal/session"
)

type ctxKey struct{}

// sessionView is the JSON form of a session.
type sessionView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Rows      int              `json:"rows"`
	Columns   []string         `json:"columns"`
	Summary   analysis.Summary `json:"summary"`
	Preview   *previewView     `json:"preview,omitempty"`
	Warnings  int              `json:"coercion_warnings"`
	CreatedAt time.Time        `json:"created_at"`
}

type previewView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func newSessionView(sess *session.Session, previewRows int) sessionView {
	v := sessionView{
		ID:        sess.ID,
		Name:      sess.Name,
		Rows:      sess.Table.Len(),
		Columns:   sess.Table.Columns(),
		Summary:   sess.Summary,
		Warnings:  len(sess.Table.Warnings()),
		CreatedAt: sess.CreatedAt,
	}
	if previewRows > 0 {
		p := newPreview(sess.Table, previewRows)
		v.Preview = &p
	}
	return v
}

func newPreview(t *dataset.Table, n int) previewView {
	head := t.Head(n)
	return previewView{Columns: head[0], Rows: head[1:]}
}

// upload handles POST /api/uploads.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opt.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.ObserveUpload(metrics.ResultTooLarge, 0, nil, time.Since(start))
			render.Render(w, r, errTooLarge)
			return
		}
		render.Render(w, r, errInvalidUpload)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, errMissingFile)
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, errInvalidUpload)
		return
	}

	opt := s.opt.Parse
	opt.Filename = filepath.Base(header.Filename)
	if d := r.FormValue("delimiter"); d != "" {
		opt.Delimiter = config.ParseDelimiter(d)
	}
	if sheet := strings.TrimSpace(r.FormValue("sheet")); sheet != "" {
		if i, err := strconv.Atoi(sheet); err == nil {
			opt.SheetIndex = i
		} else {
			opt.SheetName = sheet
		}
	}

	tbl, sum, err := analysis.Run(raw, opt)
	if err != nil {
		apiErr := pipelineError(err)
		result := metrics.ResultParse
		if apiErr.StatusCode == http.StatusUnprocessableEntity {
			result = metrics.ResultValidation
		}
		s.metrics.ObserveUpload(result, 0, nil, time.Since(start))
		log.Info("upload rejected", slog.String("file", opt.Filename), slog.String("error_code", apiErr.ErrorCode), slog.String("error", err.Error()))
		render.Render(w, r, apiErr)
		return
	}
	s.metrics.ObserveUpload(metrics.ResultOK, tbl.Len(), tbl.Imputed(), time.Since(start))

	sess := s.store.Create(opt.Filename, tbl, sum)
	s.syncSessionGauge()
	log.Info("upload processed",
		slog.String("session", sess.ID),
		slog.String("file", opt.Filename),
		slog.Int("rows", tbl.Len()),
		slog.String("tier", string(sum.Tier)),
		slog.Int("coercion_warnings", len(tbl.Warnings())),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newSessionView(sess, s.opt.PreviewRows))
}

// sessionCtx loads the {id} session into the request context.
func (s *Server) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.syncSessionGauge()
			render.Render(w, r, errNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newSessionView(sessionFrom(r), 0))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(sessionFrom(r).ID)
	s.syncSessionGauge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	n := s.opt.PreviewRows
	if q := r.URL.Query().Get("rows"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			render.Render(w, r, newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "rows must be a non-negative integer"))
			return
		}
		n = v
	}
	render.JSON(w, r, newPreview(sessionFrom(r).Table, n))
}

func (s *Server) series(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, y := q.Get("x"), q.Get("y")
	if x == "" {
		x = dataset.ColTimestamp
	}
	if y == "" {
		y = dataset.ColCO2
	}
	cs, err := analysis.Series(sessionFrom(r).Table, x, y)
	if err != nil {
		render.Render(w, r, newAPIError(http.StatusBadRequest, "UNKNOWN_COLUMN", err.Error()))
		return
	}
	render.JSON(w, r, cs)
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		render.Render(w, r, newAPIError(http.StatusNotFound, "UNKNOWN_CHART", err.Error()))
		return
	}
	q := r.URL.Query()
	req := chart.Request{X: q.Get("x"), Y: q.Get("y")}
	req.Width, _ = strconv.Atoi(q.Get("width"))
	req.Height, _ = strconv.Atoi(q.Get("height"))
	if req.Width > 4096 || req.Height > 4096 {
		render.Render(w, r, newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "width and height must be at most 4096"))
		return
	}

	sess := sessionFrom(r)
	var buf bytes.Buffer
	if err := chart.Render(&buf, kind, sess.Table, sess.Summary, req); err != nil {
		switch {
		case errors.Is(err, analysis.ErrUnknownColumn):
			render.Render(w, r, newAPIError(http.StatusBadRequest, "UNKNOWN_COLUMN", err.Error()))
		case errors.Is(err, chart.ErrNotEnoughData):
			render.Render(w, r, newAPIError(http.StatusUnprocessableEntity, "NOT_ENOUGH_DATA", err.Error()))
		default:
			s.logger.Error("chart render failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
			render.Render(w, r, newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "chart rendering failed"))
		}
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, ".csv", "text/csv; charset=utf-8", dataset.WriteCSV)
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", dataset.WriteXLSX)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, *dataset.Table) error) {
	sess := sessionFrom(r)
	var buf bytes.Buffer
	if err := write(&buf, sess.Table); err != nil {
		s.logger.Error("export failed", slog.String("session", sess.ID), slog.Any("error", err))
		render.Render(w, r, newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "export failed"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(sess.Name, ext)))
	_, _ = w.Write(buf.Bytes())
}

// exportName turns "office.csv" into "office_cleaned.csv".
func exportName(name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "readings"
	}
	return base + "_cleaned" + ext
}
