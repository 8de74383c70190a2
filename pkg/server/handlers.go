package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sprout/pkg/buildinfo"
	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
	"github.com/matzehuels/sprout/pkg/observability"
	"github.com/matzehuels/sprout/pkg/pipeline"
	"github.com/matzehuels/sprout/pkg/sink"
	"github.com/matzehuels/sprout/pkg/turtle"
)

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type growResponse struct {
	ID        string                     `json:"id"`
	Stats     pipeline.Stats             `json:"stats"`
	Cache     pipeline.CacheInfo         `json:"cache"`
	Artifacts map[string]json.RawMessage `json:"artifacts,omitempty"`
	Text      string                     `json:"text,omitempty"`
}

type validateResponse struct {
	Valid           bool   `json:"valid"`
	Symbols         int    `json:"symbols"`
	MaxPoseDepth    int    `json:"max_pose_depth"`
	MaxPolygonDepth int    `json:"max_polygon_depth"`
	Error           string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lsystem.Presets)
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := lsystem.Preset(name)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "unknown preset %q", name))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGrow(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{Steps: pipeline.DefaultSteps}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode options"))
		return
	}
	if opts.MaxSteps <= 0 || opts.MaxSteps > s.maxSteps {
		opts.MaxSteps = s.maxSteps
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := growResponse{
		ID:        res.ID,
		Stats:     res.Stats,
		Cache:     res.CacheInfo,
		Artifacts: make(map[string]json.RawMessage),
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatText {
			resp.Text = string(data)
			continue
		}
		resp.Artifacts[format] = data
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	sentence, ok := s.readSentence(w, r)
	if !ok {
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = pipeline.DefaultMode
	}
	if err := pipeline.ValidateMode(mode); err != nil {
		s.writeError(w, r, err)
		return
	}
	angle := lsystem.Presets[pipeline.DefaultPreset].Angle
	if v := r.URL.Query().Get("angle"); v != "" {
		if err := json.Unmarshal([]byte(v), &angle); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "angle %q is not a number", v))
			return
		}
	}

	var (
		data []byte
		err  error
	)
	if mode == pipeline.ModeSpatial {
		var polys []turtle.Polygon3
		if polys, err = turtle.Interpret3D(sentence, angle); err == nil {
			err = turtle.CheckFinite3(polys)
		}
		if err == nil {
			data, err = sink.RenderJSON3(polys, sink.WithJSONAngle(angle))
		}
	} else {
		var polys []turtle.Polygon
		if polys, err = turtle.Interpret(sentence, angle); err == nil {
			err = turtle.CheckFinite(polys)
		}
		if err == nil {
			data, err = sink.RenderJSON(polys, sink.WithJSONAngle(angle))
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sentence, ok := s.readSentence(w, r)
	if !ok {
		return
	}
	resp := validateResponse{Valid: true, Symbols: len(sentence)}
	resp.MaxPoseDepth, resp.MaxPolygonDepth = lsystem.Depths(sentence)
	if err := lsystem.Validate(sentence); err != nil {
		resp.Valid = false
		resp.Error = errors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readSentence(w http.ResponseWriter, r *http.Request) (lsystem.Sentence, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return nil, false
	}
	sentence, err := lsystem.ParseSentence(string(body))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sentence, true
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.IsMalformedSentence(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
