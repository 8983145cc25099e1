// Package githubtest provides an in-memory fake of the GitHub release REST API
// for tests.
package githubtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-github/v75/github"
)

// Server is a fake GitHub API backed by memory
type Server struct {
	*httptest.Server

	token string

	mu       sync.Mutex
	nextID   int64
	repos    map[string][]*github.RepositoryRelease
	contents map[int64][]byte

	// Created records the tags of releases created through the API
	Created []string
	// Uploaded records the names of assets uploaded through the API
	Uploaded []string
	// BasicAuthUsers records the user of every basic-auth authenticated request
	BasicAuthUsers []string
}

// New starts a fake server accepting token. It is closed when the test ends.
func New(t testing.TB, token string) *Server {
	s := &Server{
		token:    token,
		nextID:   1000,
		repos:    make(map[string][]*github.RepositoryRelease),
		contents: make(map[int64][]byte),
	}

	router := chi.NewRouter()
	router.Use(s.authenticate)
	router.Get("/repos/{owner}/{repo}/releases", s.handleListReleases)
	router.Post("/repos/{owner}/{repo}/releases", s.handleCreateRelease)
	router.Post("/repos/{owner}/{repo}/releases/{id}/assets", s.handleUploadAsset)
	router.Get("/repos/{owner}/{repo}/releases/assets/{id}", s.handleDownloadAsset)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// AddRepo registers an empty repository
func (s *Server) AddRepo(repo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repos[repo]; !ok {
		s.repos[repo] = []*github.RepositoryRelease{}
	}
}

// AddRelease registers a release and returns its ID
func (s *Server) AddRelease(repo, tag, name string, createdAt time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.repos[repo] = append(s.repos[repo], &github.RepositoryRelease{
		ID:        github.Ptr(id),
		TagName:   github.Ptr(tag),
		Name:      github.Ptr(name),
		CreatedAt: &github.Timestamp{Time: createdAt},
		UploadURL: github.Ptr(fmt.Sprintf("%s/repos/%s/releases/%d/assets{?name,label}", s.URL, repo, id)),
	})
	return id
}

// AddAsset attaches an asset with content to a release
func (s *Server) AddAsset(repo string, releaseID int64, name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addAsset(repo, releaseID, name, content)
}

// Releases returns a snapshot of the releases of repo
func (s *Server) Releases(repo string) []*github.RepositoryRelease {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*github.RepositoryRelease{}, s.repos[repo]...)
}

// Content returns the stored content of the named asset of the release tagged tag
func (s *Server) Content(repo, tag, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.repos[repo] {
		if r.GetTagName() != tag {
			continue
		}
		for _, a := range r.Assets {
			if a.GetName() == name {
				return s.contents[a.GetID()], true
			}
		}
	}
	return nil, false
}

func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) addAsset(repo string, releaseID int64, name string, content []byte) *github.ReleaseAsset {
	for _, r := range s.repos[repo] {
		if r.GetID() != releaseID {
			continue
		}
		id := s.newID()
		asset := &github.ReleaseAsset{
			ID:                 github.Ptr(id),
			Name:               github.Ptr(name),
			Size:               github.Ptr(len(content)),
			URL:                github.Ptr(fmt.Sprintf("%s/repos/%s/releases/assets/%d", s.URL, repo, id)),
			BrowserDownloadURL: github.Ptr(fmt.Sprintf("%s/%s/releases/download/%s/%s", s.URL, repo, r.GetTagName(), name)),
		}
		r.Assets = append(r.Assets, asset)
		s.contents[id] = content
		return asset
	}
	return nil
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+s.token {
			next.ServeHTTP(w, r)
			return
		}
		if user, pass, ok := r.BasicAuth(); ok && pass == s.token {
			s.mu.Lock()
			s.BasicAuthUsers = append(s.BasicAuthUsers, user)
			s.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "Bad credentials")
	})
}

func (s *Server) handleListReleases(w http.ResponseWriter, r *http.Request) {
	repo := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")

	s.mu.Lock()
	releases, ok := s.repos[repo]
	releases = append([]*github.RepositoryRelease{}, releases...)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 30
	}

	start := (page - 1) * perPage
	if start > len(releases) {
		start = len(releases)
	}
	end := start + perPage
	if end > len(releases) {
		end = len(releases)
	}
	if end < len(releases) {
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=%d&per_page=%d>; rel="next"`, s.URL, r.URL.Path, page+1, perPage))
	}

	writeJSON(w, http.StatusOK, releases[start:end])
}

func (s *Server) handleCreateRelease(w http.ResponseWriter, r *http.Request) {
	repo := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")

	var req github.RepositoryRelease
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.repos[repo]; !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	id := s.newID()
	req.ID = github.Ptr(id)
	req.CreatedAt = &github.Timestamp{Time: time.Now()}
	req.UploadURL = github.Ptr(fmt.Sprintf("%s/repos/%s/releases/%d/assets{?name,label}", s.URL, repo, id))
	s.repos[repo] = append(s.repos[repo], &req)
	s.Created = append(s.Created, req.GetTagName())

	writeJSON(w, http.StatusCreated, &req)
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	repo := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
	releaseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := r.URL.Query().Get("name")

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rel := range s.repos[repo] {
		for _, a := range rel.Assets {
			if rel.GetID() == releaseID && a.GetName() == name {
				writeError(w, http.StatusUnprocessableEntity, "Validation Failed")
				return
			}
		}
	}

	asset := s.addAsset(repo, releaseID, name, content)
	if asset == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	s.Uploaded = append(s.Uploaded, name)

	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleDownloadAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.Header.Get("Accept") != "application/octet-stream" {
		writeError(w, http.StatusUnsupportedMediaType, "octet-stream required")
		return
	}

	s.mu.Lock()
	content, ok := s.contents[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
