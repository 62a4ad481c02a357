// Package cvtwin is an in-memory stand-in for the Comic Vine API, used by
// tests to exercise the client over real HTTP.
package cvtwin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version is reported in every payload.
const Version = "1.0"

// Request is a recorded incoming request.
type Request struct {
	Path  string
	Query map[string]string
}

type typeEntry struct {
	DetailResourceName string `json:"detail_resource_name"`
	ListResourceName   string `json:"list_resource_name"`
	ID                 int    `json:"id"`
}

// Server is a fake Comic Vine API.
type Server struct {
	*httptest.Server
	APIKey string

	mu       sync.Mutex
	types    []typeEntry
	objects  map[string][]map[string]any // detail resource -> objects
	requests []Request
	statuses map[string]int // path -> forced HTTP status
}

// New starts a server accepting apiKey.
func New(apiKey string) *Server {
	s := &Server{
		APIKey:   apiKey,
		objects:  make(map[string][]map[string]any),
		statuses: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/types", s.handleTypes)
		r.Get("/search", s.handleSearch)
		r.Get("/{resource}", s.handleList)
		r.Get("/{resource}/{ref}", s.handleDetail)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the API root to hand to the client.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddType registers a type descriptor.
func (s *Server) AddType(id int, detail, list string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, typeEntry{DetailResourceName: detail, ListResourceName: list, ID: id})
}

// AddObject stores obj under a detail resource. obj must carry an "id".
func (s *Server) AddObject(detail string, obj map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[detail] = append(s.objects[detail], obj)
}

// FailWith forces every request to path to answer with status.
func (s *Server) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[path] = status
}

// Requests returns the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit path.
func (s *Server) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := make(map[string]string)
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Path: r.URL.Path, Query: query})
		status, forced := s.statuses[r.URL.Path]
		s.mu.Unlock()

		if forced {
			w.WriteHeader(status)
			return
		}
		if query["api_key"] != s.APIKey {
			writePayload(w, map[string]any{"error": "Invalid API Key", "status_code": 100, "results": []any{}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	types := append([]typeEntry(nil), s.types...)
	s.mu.Unlock()

	writeOK(w, types, 0, 0, len(types), len(types))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	detail, ok := s.detailFor(resource)
	if !ok {
		writePayload(w, map[string]any{"error": "Object Not Found", "status_code": 101, "results": []any{}})
		return
	}

	s.mu.Lock()
	objs := append([]map[string]any(nil), s.objects[detail]...)
	s.mu.Unlock()

	limit, offset := paging(r, len(objs))
	page := window(objs, offset, limit)
	writeOK(w, page, limit, offset, len(page), len(objs))
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	typeRef, id, found := strings.Cut(chi.URLParam(r, "ref"), "-")
	typeID, err := strconv.Atoi(typeRef)
	if !found || err != nil || !s.typeMatches(resource, typeID) {
		writePayload(w, map[string]any{"error": "Object Not Found", "status_code": 101, "results": []any{}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range s.objects[resource] {
		if fmt.Sprint(obj["id"]) == id {
			writeOK(w, obj, 1, 0, 1, 1)
			return
		}
	}
	writePayload(w, map[string]any{"error": "Object Not Found", "status_code": 101, "results": []any{}})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	resources := strings.Split(r.URL.Query().Get("resources"), ",")

	s.mu.Lock()
	var matches []map[string]any
	for _, res := range resources {
		for _, obj := range s.objects[strings.TrimSpace(res)] {
			name, _ := obj["name"].(string)
			if strings.Contains(strings.ToLower(name), query) {
				hit := make(map[string]any, len(obj)+1)
				for k, v := range obj {
					hit[k] = v
				}
				hit["resource_type"] = strings.TrimSpace(res)
				matches = append(matches, hit)
			}
		}
	}
	s.mu.Unlock()

	limit, _ := paging(r, len(matches))
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if pageNum < 1 {
		pageNum = 1
	}
	offset := (pageNum - 1) * limit
	page := window(matches, offset, limit)
	writeOK(w, page, limit, offset, len(page), len(matches))
}

func (s *Server) detailFor(list string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.types {
		if t.ListResourceName == list {
			return t.DetailResourceName, true
		}
	}
	return "", false
}

func (s *Server) typeMatches(detail string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.types {
		if t.DetailResourceName == detail {
			return t.ID == id
		}
	}
	return false
}

func paging(r *http.Request, total int) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 || offset > total {
		offset = total
	}
	return limit, offset
}

func window(objs []map[string]any, offset, limit int) []map[string]any {
	sort.SliceStable(objs, func(i, j int) bool {
		return fmt.Sprint(objs[i]["id"]) < fmt.Sprint(objs[j]["id"])
	})
	if offset >= len(objs) {
		return []map[string]any{}
	}
	end := min(offset+limit, len(objs))
	return objs[offset:end]
}

func writeOK(w http.ResponseWriter, results any, limit, offset, pageResults, total int) {
	writePayload(w, map[string]any{
		"error":                   "OK",
		"limit":                   limit,
		"offset":                  offset,
		"number_of_page_results":  pageResults,
		"number_of_total_results": total,
		"status_code":             1,
		"results":                 results,
	})
}

func writePayload(w http.ResponseWriter, payload map[string]any) {
	payload["version"] = Version
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
