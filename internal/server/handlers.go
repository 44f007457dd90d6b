// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/profile"
	"github.com/woozymasta/hgtlink/internal/raster"
	"github.com/woozymasta/hgtlink/internal/render"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var errUnknownTile = errors.New("unknown tile")

// errBadQuery marks malformed request parameters.
var errBadQuery = errors.New("bad query")

// Routes wires every handler behind the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tiles", s.HandleTiles)
	mux.HandleFunc("/api/profile", s.HandleProfile)
	mux.HandleFunc("/api/profile.webp", s.HandleProfileImage)
	mux.HandleFunc("/api/profile.png", s.HandleProfileImage)
	mux.HandleFunc("/api/profile.geojson", s.HandleProfileGeoJSON)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/favicon.svg", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}

// HandleTiles serves the list of loaded tiles.
func (s *ServerContext) HandleTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tiles())
}

// HandleProfile serves the full profile as JSON. With summary=true the
// per-sample arrays are left out.
func (s *ServerContext) HandleProfile(w http.ResponseWriter, r *http.Request) {
	res, ok := s.computeProfile(w, r)
	if !ok {
		return
	}

	if b, _ := strconv.ParseBool(r.URL.Query().Get("summary")); b {
		res.Samples = nil
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleProfileImage renders the profile chart as webp or png depending on the path suffix.
func (s *ServerContext) HandleProfileImage(w http.ResponseWriter, r *http.Request) {
	format := "webp"
	if strings.HasSuffix(r.URL.Path, ".png") {
		format = "png"
	}

	res, ok := s.computeProfile(w, r)
	if !ok {
		return
	}

	width, height := s.Config.Chart.Width, s.Config.Chart.Height
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("width")); err == nil && v > 0 && v <= 4096 {
		width = v
	}
	if v, err := strconv.Atoi(q.Get("height")); err == nil && v > 0 && v <= 4096 {
		height = v
	}

	img, err := render.Chart(res, width, height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-cache")
	if err := render.Encode(w, img, format); err != nil {
		log.Error().Err(err).Str("format", format).Msg("Failed to encode chart")
	}
}

// HandleProfileGeoJSON serves the path, stations and worst sample as GeoJSON.
func (s *ServerContext) HandleProfileGeoJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := s.computeProfile(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_ = json.NewEncoder(w).Encode(res.GeoJSON())
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// computeProfile parses the query, runs the pipeline and writes an error
// response itself when something is wrong.
func (s *ServerContext) computeProfile(w http.ResponseWriter, r *http.Request) (*profile.Result, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return nil, false
	}

	req, err := parseProfileQuery(r, s.Config.Link, s.Config.Curvature)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}

	rs, err := s.findTile(req.tile, req.p1, req.p2)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}

	sel, err := profile.Select(rs, req.p1, req.p2)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}

	res, err := profile.Compute(rs, sel, req.link, req.opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}

	outcome := "clear"
	switch {
	case res.Degenerate:
		outcome = "degenerate"
	case !res.Clear:
		outcome = "obstructed"
	}
	profilesTotal.WithLabelValues(outcome).Inc()
	profileSamples.Observe(float64(len(res.Samples)))

	return res, true
}

type profileQuery struct {
	tile   string
	p1, p2 geo.Point
	link   profile.LinkParameters
	opts   profile.Options
}

func parseProfileQuery(r *http.Request, link profile.LinkParameters, curvature bool) (profileQuery, error) {
	q := r.URL.Query()
	out := profileQuery{tile: q.Get("tile"), link: link, opts: profile.Options{Curvature: curvature}}

	coords := []struct {
		key string
		dst *float64
	}{
		{"lat1", &out.p1.Lat}, {"lon1", &out.p1.Lon},
		{"lat2", &out.p2.Lat}, {"lon2", &out.p2.Lon},
	}
	missing := 0
	for _, c := range coords {
		v := q.Get(c.key)
		if v == "" {
			missing++
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return out, fmt.Errorf("%w: %s=%q", errBadQuery, c.key, v)
		}
		*c.dst = f
	}
	if missing > 0 {
		return out, fmt.Errorf("%w: lat1, lon1, lat2 and lon2 are all needed", profile.ErrInsufficientPoints)
	}

	setters := []struct {
		key string
		set func(profile.LinkParameters, float64) (profile.LinkParameters, error)
	}{
		{"h1", profile.LinkParameters.WithHeight1},
		{"h2", profile.LinkParameters.WithHeight2},
		{"f", profile.LinkParameters.WithFrequency},
	}
	for _, st := range setters {
		v := q.Get(st.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return out, fmt.Errorf("%w: %s=%q", errBadQuery, st.key, v)
		}
		if out.link, err = st.set(out.link, f); err != nil {
			return out, err
		}
	}

	if v := q.Get("curvature"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return out, fmt.Errorf("%w: curvature=%q", errBadQuery, v)
		}
		out.opts.Curvature = b
	}

	return out, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownTile):
		return http.StatusNotFound
	case errors.Is(err, errBadQuery),
		errors.Is(err, raster.ErrPointOutOfBounds),
		errors.Is(err, profile.ErrInvalidParameter),
		errors.Is(err, profile.ErrInsufficientPoints),
		errors.Is(err, geo.ErrDomain):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
