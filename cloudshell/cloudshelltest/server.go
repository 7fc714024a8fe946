// Package cloudshelltest provides an in-memory CloudShell packaging API
// server for tests. It mimics the real server's endpoint surface and its
// status-code behavior, including the quirks the client has to handle:
// quoted login tokens, 400 for unknown shells, and 404 from servers that
// predate an endpoint (legacy mode).
package cloudshelltest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qualisystems/cloudshell-rest-go/cloudshell"
)

// Server is a fake CloudShell packaging API server.
type Server struct {
	srv *httptest.Server

	// Username, Password and Domain are the accepted credentials.
	Username string
	Password string
	Domain   string

	mu        sync.Mutex
	token     string
	legacy    bool
	shells    map[string][]byte
	packages  map[string][]byte
	standards []cloudshell.StandardInfo
}

// NewServer starts a fake server accepting admin/admin in the Global domain.
// Callers must Close it.
func NewServer() *Server {
	s := &Server{
		Username: "admin",
		Password: "admin",
		Domain:   "Global",
		token:    uuid.NewString(),
		shells:   make(map[string][]byte),
		packages: make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /Api/Auth/Login", s.handleLogin)
	mux.HandleFunc("POST /Api/Shells", s.authed(s.handleAddShell))
	mux.HandleFunc("PUT /Api/Shells/{name}", s.authed(s.handleUpdateShell))
	mux.HandleFunc("DELETE /Api/Shells/{name}", s.authed(s.handleDeleteShell))
	mux.HandleFunc("GET /Api/Shells/{name}", s.authed(s.handleGetShell))
	mux.HandleFunc("GET /Api/Standards", s.authed(s.handleStandards))
	mux.HandleFunc("POST /Api/Packages", s.authed(s.handleImportPackage))
	mux.HandleFunc("GET /Api/Packages/{name}", s.authed(s.handleExportPackage))

	s.srv = httptest.NewServer(mux)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// URL returns the server's base URL (scheme://host:port).
func (s *Server) URL() string {
	return s.srv.URL
}

// Host returns the host the server listens on.
func (s *Server) Host() string {
	return strings.Split(hostPort(s.srv.URL), ":")[0]
}

// Port returns the port the server listens on.
func (s *Server) Port() int {
	var port int
	fmt.Sscanf(strings.Split(hostPort(s.srv.URL), ":")[1], "%d", &port)
	return port
}

func hostPort(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
}

// Token returns the session token the server hands out at login.
func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetLegacy makes the server behave like an old CloudShell release:
// Standards, Packages, shell metadata and shell delete answer 404.
func (s *Server) SetLegacy(legacy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy = legacy
}

// SetShell seeds a shell without going through the upload endpoint.
func (s *Server) SetShell(name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shells[name] = content
}

// Shell returns a stored shell's content.
func (s *Server) Shell(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.shells[name]
	return content, ok
}

// Package returns a stored package's content.
func (s *Server) Package(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.packages[name]
	return content, ok
}

// SetPackage seeds a package for export tests.
func (s *Server) SetPackage(name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[name] = content
}

// AddStandard registers a standard reported by GET /Api/Standards.
func (s *Server) AddStandard(info cloudshell.StandardInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standards = append(s.standards, info)
}

// authed wraps a handler with bearer-token verification.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := "Bearer " + s.token
		s.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"Username"`
		Password string `json:"Password"`
		Domain   string `json:"Domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "malformed login request", http.StatusBadRequest)
		return
	}
	if creds.Username != s.Username || creds.Password != s.Password || creds.Domain != s.Domain {
		http.Error(w, fmt.Sprintf("Login failed for user: %s", creds.Username), http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	// The real server quotes the token.
	fmt.Fprintf(w, "%q", token)
}

// uploadedFile reads the multipart "file" part and returns its name and bytes.
func uploadedFile(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, err
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, content, nil
}

// shellName strips the extension: "NutShell.zip" -> "NutShell".
func shellName(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i > 0 {
		return fileName[:i]
	}
	return fileName
}

func (s *Server) handleAddShell(w http.ResponseWriter, r *http.Request) {
	fileName, content, err := uploadedFile(r)
	if err != nil {
		http.Error(w, "invalid shell package", http.StatusBadRequest)
		return
	}
	name := shellName(fileName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shells[name]; exists {
		http.Error(w, fmt.Sprintf("Shell named '%s' already exists", name), http.StatusBadRequest)
		return
	}
	s.shells[name] = content
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdateShell(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	_, content, err := uploadedFile(r)
	if err != nil {
		http.Error(w, "invalid shell package", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shells[name]; !exists {
		http.Error(w, fmt.Sprintf("Shell '%s' not found", name), http.StatusNotFound)
		return
	}
	s.shells[name] = content
}

func (s *Server) handleDeleteShell(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.legacy {
		http.NotFound(w, r)
		return
	}
	if _, exists := s.shells[name]; !exists {
		// The real server answers 400, not 404, for unknown shells.
		http.Error(w, fmt.Sprintf("Shell '%s' doesn't exist", name), http.StatusBadRequest)
		return
	}
	delete(s.shells, name)
}

func (s *Server) handleGetShell(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.Contains(r.Header.Get("Accept"), "application/octet-stream") {
		content, exists := s.shells[name]
		if !exists {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(content)
		return
	}

	// Metadata request.
	if s.legacy {
		http.NotFound(w, r)
		return
	}
	if _, exists := s.shells[name]; !exists {
		http.Error(w, fmt.Sprintf("Shell '%s' doesn't exist", name), http.StatusBadRequest)
		return
	}
	info := cloudshell.ShellInfo{
		ID:                 uuid.NewString(),
		Name:               name,
		Version:            "1.0.0",
		StandardType:       "Networking",
		ModificationDate:   time.Now().UTC().Format(time.RFC3339),
		LastModifiedByUser: cloudshell.UserInfo{Username: s.Username, Email: s.Username + "@example.com"},
		Author:             "Quali",
		IsOfficial:         true,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.legacy {
		http.NotFound(w, r)
		return
	}
	standards := s.standards
	if standards == nil {
		standards = []cloudshell.StandardInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(standards)
}

func (s *Server) handleImportPackage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	legacy := s.legacy
	s.mu.Unlock()
	if legacy {
		http.NotFound(w, r)
		return
	}

	fileName, content, err := uploadedFile(r)
	if err != nil {
		http.Error(w, "invalid package", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[shellName(fileName)] = content
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleExportPackage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	content, exists := s.packages[name]
	if !exists {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}
