package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/catalog"
	"github.com/alexiusacademia/gocol/internal/column"
	"github.com/alexiusacademia/gocol/internal/ec3"
	"github.com/alexiusacademia/gocol/internal/store"
	"github.com/alexiusacademia/gocol/internal/version"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeJSON responds with status and v, or 500 when v cannot be encoded.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

var errBadRequest = errors.New("bad request")

// statusFor maps an error to an HTTP status: malformed input is 400,
// a calculation that cannot be carried out is 422.
func statusFor(err error) (int, string) {
	for _, c := range []struct {
		err    error
		status int
		kind   string
	}{
		{errBadRequest, http.StatusBadRequest, "bad-request"},
		{column.ErrParse, http.StatusBadRequest, "parse-error"},
		{catalog.ErrParse, http.StatusBadRequest, "parse-error"},
		{catalog.ErrUnsupportedFormat, http.StatusBadRequest, "unsupported-format"},
		{catalog.ErrUnknownColumn, http.StatusBadRequest, "unknown-column"},
		{catalog.ErrDuplicateSection, http.StatusBadRequest, "duplicate-section"},
		{store.ErrRunNotFound, http.StatusNotFound, "not-found"},
		{column.ErrInvalidAxis, http.StatusUnprocessableEntity, "invalid-axis"},
		{column.ErrInvalidGeometry, http.StatusUnprocessableEntity, "invalid-geometry"},
		{column.ErrNumericDomain, http.StatusUnprocessableEntity, "numeric-domain"},
		{column.ErrCapacityZero, http.StatusUnprocessableEntity, "capacity-zero"},
		{batch.ErrMissingValue, http.StatusUnprocessableEntity, "missing-value"},
	} {
		if errors.Is(err, c.err) {
			return c.status, c.kind
		}
	}
	return http.StatusInternalServerError, ""
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		version.Info
	}{Status: "ok", Info: version.Get()})
}

type factoredLoadResponse struct {
	FactoredLoad float64           `json:"factored_load"`
	Governing    ec3.LoadComponent `json:"governing_component"`
}

func (s *Server) factoredLoad(w http.ResponseWriter, r *http.Request) {
	var load ec3.Load
	if err := decode(r, &load); err != nil {
		s.fail(w, err)
		return
	}
	f, c := load.Governing()
	writeJSON(w, http.StatusOK, factoredLoadResponse{FactoredLoad: f, Governing: c})
}

func (s *Server) checkColumn(w http.ResponseWriter, r *http.Request) {
	c := column.NewSteelColumn("", column.Geometry{Kx: ec3.KPinned, Ky: ec3.KPinned, E: ec3.Es}, ec3.Load{})
	if s.opts.YieldStress > 0 {
		c.YieldStress = s.opts.YieldStress
	}
	if err := decode(r, c); err != nil {
		s.fail(w, err)
		return
	}

	result, err := c.Check()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rowJSON struct {
	Section string             `json:"section"`
	Values  map[string]float64 `json:"values"`
}

type failureJSON struct {
	Section string `json:"section"`
	Row     int    `json:"row"`
	Error   string `json:"error"`
}

type evaluateResponse struct {
	RunID        int64         `json:"run_id,omitempty"`
	Params       batch.Params  `json:"params"`
	Axis         column.Axis   `json:"axis"`
	Columns      []string      `json:"columns"`
	Rows         []rowJSON     `json:"rows"`
	Failures     []failureJSON `json:"failures,omitempty"`
	Lightest     string        `json:"lightest,omitempty"`
	MostUtilized string        `json:"most_utilized,omitempty"`
}

func formFloat(r *http.Request, name string, def float64, required bool) (float64, error) {
	v := r.FormValue(name)
	if v == "" {
		if required {
			return 0, fmt.Errorf("%w: missing field %q", errBadRequest, name)
		}
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: field %q: %q is not a finite number", errBadRequest, name, v)
	}
	return f, nil
}

func (s *Server) evaluateCatalog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUpload)
	if err := r.ParseMultipartForm(s.opts.MaxUpload); err != nil {
		s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, fmt.Errorf("%w: catalog file: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	format, err := catalog.FormatFromPath(header.Filename)
	if err != nil {
		s.fail(w, err)
		return
	}
	profiles, err := catalog.Read(file, format)
	if err != nil {
		s.fail(w, err)
		return
	}
	profiles.Scale(catalog.DefaultUnits)

	var p batch.Params
	fy := s.opts.YieldStress
	if fy <= 0 {
		fy = ec3.FyS235
	}
	for _, f := range []struct {
		name     string
		dst      *float64
		def      float64
		required bool
	}{
		{"height", &p.Height, 0, true},
		{"fy", &p.YieldStress, fy, false},
		{"dead", &p.Dead, 0, true},
		{"live", &p.Live, 0, true},
	} {
		if *f.dst, err = formFloat(r, f.name, f.def, f.required); err != nil {
			s.fail(w, err)
			return
		}
	}

	policy := s.opts.Policy
	if v := r.FormValue("policy"); v != "" {
		if policy, err = batch.ParsePolicy(v); err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	ev := &batch.Evaluator{Policy: policy, Workers: s.opts.Workers, Logger: s.log}
	res, err := ev.Evaluate(r.Context(), profiles, p)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := evaluateResponse{Params: p, Axis: batch.CheckedAxis}
	if s.opts.Store != nil {
		id, err := s.opts.Store.SaveRun(r.Context(), header.Filename, res)
		if err != nil {
			s.fail(w, err)
			return
		}
		resp.RunID = id
	}
	if sel, err := batch.Best(res.Table); err == nil {
		if sel.Lightest != nil {
			resp.Lightest = sel.Lightest.Name
		}
		resp.MostUtilized = sel.MostUtilized.Name
	}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, failureJSON{Section: f.Section, Row: f.Index + 1, Error: f.Err.Error()})
	}

	out, err := selectRows(r, res.Table)
	if err != nil {
		s.fail(w, err)
		return
	}
	resp.Columns = out.Columns
	resp.Rows = make([]rowJSON, len(out.Rows))
	for i, row := range out.Rows {
		resp.Rows[i] = rowJSON{Section: row.Name, Values: row.Values}
	}
	writeJSON(w, http.StatusOK, resp)
}

// selectRows applies the optional max_dcr, sort, desc and top form fields.
func selectRows(r *http.Request, t *catalog.Table) (*catalog.Table, error) {
	var err error
	if v := r.FormValue("max_dcr"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(limit) {
			return nil, fmt.Errorf("%w: max_dcr %q is not a number", errBadRequest, v)
		}
		if t, err = t.AtMost(catalog.Predicate{Column: batch.ColDCR, Threshold: limit}); err != nil {
			return nil, err
		}
	}
	if col := r.FormValue("sort"); col != "" {
		desc, _ := strconv.ParseBool(r.FormValue("desc"))
		if t, err = t.SortBy(col, !desc); err != nil {
			return nil, err
		}
	}
	if v := r.FormValue("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: top %q", errBadRequest, v)
		}
		t = t.Head(n)
	}
	return t, nil
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is disabled", Kind: "not-found"})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, fmt.Errorf("%w: limit %q", errBadRequest, v))
			return
		}
		limit = n
	}
	runs, err := s.opts.Store.ListRuns(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

type runResponse struct {
	*store.Run
	Results []store.RunResult `json:"results"`
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is disabled", Kind: "not-found"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.fail(w, fmt.Errorf("%w: run id", errBadRequest))
		return
	}
	run, err := s.opts.Store.GetRun(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	results, err := s.opts.Store.Results(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, Results: results})
}
