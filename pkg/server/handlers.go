package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/classgraph/pkg/buildinfo"
	"github.com/matzehuels/classgraph/pkg/errors"
	cgio "github.com/matzehuels/classgraph/pkg/io"
	"github.com/matzehuels/classgraph/pkg/model"
	"github.com/matzehuels/classgraph/pkg/pipeline"
	"github.com/matzehuels/classgraph/pkg/render"
	"github.com/matzehuels/classgraph/pkg/scene"
	"github.com/matzehuels/classgraph/pkg/store"
)

var validate = validator.New()

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	render.FormatSVG:  "image/svg+xml",
	render.FormatPNG:  "image/png",
	render.FormatPDF:  "application/pdf",
	render.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	render.FormatJSON: "application/json",
}

// projectRequest is the body of PUT /v1/projects/{id}.
type projectRequest struct {
	cgio.Document `yaml:",inline"`

	Owner string `json:"owner,omitempty" yaml:"owner,omitempty" validate:"omitempty,max=128"`
}

type projectResponse struct {
	store.Summary
	CreatedAt time.Time      `json:"created_at"`
	Document  *cgio.Document `json:"document"`
}

type listResponse struct {
	Projects []store.Summary `json:"projects"`
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

// =============================================================================
// Stateless pipeline
// =============================================================================

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeScene(w, r, g)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	g, err := readGraph(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	res, err := s.runner.Render(r.Context(), g, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Cached", strconv.FormatBool(res.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// renderOptions reads format, title, background, compact and graphviz from
// the query string.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.opts
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Title = q.Get("title")
	opts.Background = q.Get("background")

	for name, dst := range map[string]*bool{"compact": &opts.Compact, "graphviz": &opts.Graphviz} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query %s: want a boolean, got %q", name, v)
		}
		*dst = b
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) writeScene(w http.ResponseWriter, r *http.Request, g *model.Graph) {
	sc, hit, err := s.runner.Scene(r.Context(), g, s.opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	data, err := scene.Marshal(sc)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Layout-Cached", strconv.FormatBool(hit))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// Projects
// =============================================================================

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.respondJSON(w, http.StatusOK, listResponse{Projects: list})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	resp, err := newProjectResponse(p)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) putProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		s.respondError(w, err)
		return
	}

	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid project"))
		return
	}
	g, err := req.Document.Graph()
	if err != nil {
		s.respondError(w, err)
		return
	}

	status := http.StatusOK
	p, err := s.store.Get(r.Context(), id)
	switch {
	case errors.IsNotFound(err):
		p = &store.Project{ID: id}
		status = http.StatusCreated
	case err != nil:
		s.respondError(w, err)
		return
	}
	p.Name = req.Name
	if p.Name == "" {
		p.Name = id
	}
	p.Owner = req.Owner
	p.SetGraph(g)
	if err := s.store.Put(r.Context(), p); err != nil {
		s.respondError(w, err)
		return
	}

	resp, err := newProjectResponse(p)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) projectScene(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	g, err := p.Graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeScene(w, r, g)
}

func newProjectResponse(p *store.Project) (projectResponse, error) {
	g, err := p.Graph()
	if err != nil {
		return projectResponse{}, err
	}
	return projectResponse{
		Summary:   p.Summary(),
		CreatedAt: p.CreatedAt,
		Document:  cgio.FromGraph(p.Name, g),
	}, nil
}

// =============================================================================
// Request bodies
// =============================================================================

// bodyFormat picks the document codec from the Content-Type header.
func bodyFormat(r *http.Request) string {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return cgio.FormatYAML
	}
	return cgio.FormatJSON
}

func readGraph(r *http.Request) (*model.Graph, error) {
	d, err := cgio.Read(r.Body, bodyFormat(r))
	if err != nil {
		return nil, err
	}
	return d.Graph()
}

func decodeBody(r *http.Request, v any) error {
	var err error
	if bodyFormat(r) == cgio.FormatYAML {
		dec := yaml.NewDecoder(r.Body)
		dec.KnownFields(true)
		err = dec.Decode(v)
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	}
	if err == io.EOF {
		return errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}
