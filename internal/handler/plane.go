package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/deppfellow/hangar/internal/errs"
	"github.com/deppfellow/hangar/internal/model"
	"github.com/deppfellow/hangar/internal/server"
	"github.com/deppfellow/hangar/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	// PlanesPath is the collection route. Create redirects here.
	PlanesPath = "/planes"

	planeParam = "plane"
)

// PlaneListView feeds the planes/index page and the JSON list response.
type PlaneListView struct {
	Planes []model.Plane `json:"planes"`
}

// PlaneView feeds the planes/new and planes/show pages.
type PlaneView struct {
	Plane *model.Plane `json:"plane"`
}

// PlaneHandler serves the plane resource.
type PlaneHandler struct {
	Handler
	planes *service.PlaneService
}

// NewPlaneHandler constructs a PlaneHandler over the plane service.
func NewPlaneHandler(s *server.Server, planes *service.PlaneService) *PlaneHandler {
	return &PlaneHandler{
		Handler: NewHandler(s),
		planes:  planes,
	}
}

// List handles GET /planes.
func (h *PlaneHandler) List() echo.HandlerFunc {
	return HandleView(h.Handler, func(c echo.Context, _ *ListPlanesRequest) (*PlaneListView, error) {
		planes, err := h.planes.List(c.Request().Context())
		if err != nil {
			return nil, err
		}
		return &PlaneListView{Planes: planes}, nil
	}, http.StatusOK, "planes/index", func() *ListPlanesRequest { return &ListPlanesRequest{} })
}

// New handles GET /planes/new.
func (h *PlaneHandler) New() echo.HandlerFunc {
	return HandleView(h.Handler, func(c echo.Context, _ *NewPlaneRequest) (*PlaneView, error) {
		return &PlaneView{Plane: h.planes.New()}, nil
	}, http.StatusOK, "planes/new", func() *NewPlaneRequest { return &NewPlaneRequest{} })
}

// Create handles POST /planes and redirects to the list.
func (h *PlaneHandler) Create() echo.HandlerFunc {
	return HandleRedirect(h.Handler, func(c echo.Context, req *CreatePlaneRequest) error {
		_, err := h.planes.Create(c.Request().Context(), *req.Plane)
		return err
	}, http.StatusFound, PlanesPath, func() *CreatePlaneRequest { return &CreatePlaneRequest{} })
}

// Show handles GET /planes/:id.
func (h *PlaneHandler) Show() echo.HandlerFunc {
	return HandleView(h.Handler, func(c echo.Context, req *ShowPlaneRequest) (*PlaneView, error) {
		id, err := strconv.ParseInt(req.ID, 10, 64)
		if err != nil {
			// No stored plane can have this id.
			return nil, errs.NewNotFoundError("Plane not found", true, nil)
		}

		plane, err := h.planes.GetByID(c.Request().Context(), id)
		if err != nil {
			return nil, err
		}
		return &PlaneView{Plane: plane}, nil
	}, http.StatusOK, "planes/show", func() *ShowPlaneRequest { return &ShowPlaneRequest{} })
}

// ---------------- Requests ---------------------------------------------------

type ListPlanesRequest struct{}

func (r *ListPlanesRequest) Validate() error { return nil }

type NewPlaneRequest struct{}

func (r *NewPlaneRequest) Validate() error { return nil }

type ShowPlaneRequest struct {
	ID string `param:"id"`
}

func (r *ShowPlaneRequest) Validate() error { return nil }

// CreatePlaneRequest carries the allow-listed fields of the nested "plane"
// object. Plane stays nil when the object is absent or empty.
//
// Accepted bodies:
//
//	application/json:                  {"plane": {"name": "...", "kind": "...", "description": "..."}}
//	application/x-www-form-urlencoded: plane[name]=...&plane[kind]=...&plane[description]=...
type CreatePlaneRequest struct {
	Plane *model.PlaneParams
}

func (r *CreatePlaneRequest) Validate() error {
	if r.Plane == nil {
		return errs.NewMissingParameterError(planeParam)
	}
	return nil
}

// Bind decodes the request body itself; echo's binder has no notion of
// bracketed form keys.
func (r *CreatePlaneRequest) Bind(c echo.Context) error {
	req := c.Request()
	contentType := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		return r.bindJSON(req.Body)

	case strings.HasPrefix(contentType, echo.MIMEApplicationForm),
		strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		form, err := c.FormParams()
		if err != nil {
			return err
		}
		r.bindForm(form)
		return nil

	case req.ContentLength == 0:
		return nil

	default:
		return echo.ErrUnsupportedMediaType
	}
}

func (r *CreatePlaneRequest) bindJSON(body io.Reader) error {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&top); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	raw, ok := top[planeParam]
	if !ok {
		return nil
	}

	// null leaves fields nil, which counts as missing like {}.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	// Keys match exactly; "NAME" or "Name" is not on the allow-list.
	var params model.PlaneParams
	for key, dst := range map[string]**string{
		"name":        &params.Name,
		"kind":        &params.Kind,
		"description": &params.Description,
	} {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return err
		}
	}
	r.Plane = &params
	return nil
}

func (r *CreatePlaneRequest) bindForm(form url.Values) {
	var params model.PlaneParams
	found := false

	for key, values := range form {
		field, ok := formField(key)
		if !ok {
			continue
		}
		found = true
		if len(values) == 0 {
			continue
		}

		// Repeated keys: the last value wins.
		value := values[len(values)-1]
		switch field {
		case "name":
			params.Name = &value
		case "kind":
			params.Kind = &value
		case "description":
			params.Description = &value
		}
	}

	if found {
		r.Plane = &params
	}
}

// formField returns "name" for the key "plane[name]".
func formField(key string) (string, bool) {
	prefix := planeParam + "["
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
		return "", false
	}
	return key[len(prefix) : len(key)-1], true
}
