package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/UnknownOlympus/athena/internal/services/employees"
	"github.com/UnknownOlympus/athena/internal/web"
)

const (
	cookieName = "athena_session"
	sessionID  = "sid-test"
)

// fakeBackend imitates the employee REST API.
type fakeBackend struct {
	t     *testing.T
	token string

	mu        sync.Mutex
	employees []map[string]any
	calls     []string
	auth      []string
	forms     []map[string]string
	uploads   map[string]int64
	fail      map[string]int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "ada@example.com"}).
		SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	return &fakeBackend{
		t:     t,
		token: token,
		employees: []map[string]any{
			{
				"_id":             "e1",
				"firstName":       "Ada",
				"lastName":        "Lovelace",
				"email":           "ada@example.com",
				"position":        "Engineer",
				"department":      "R&D",
				"dateOfJoining":   "2023-04-01T00:00:00.000Z",
				"salary":          12345.67,
				"profileImageUrl": "/uploads/ada.png",
			},
			{
				"_id":        "e2",
				"firstName":  "Alan",
				"lastName":   "Turing",
				"email":      "alan@example.com",
				"position":   "Analyst",
				"department": "Math",
				"salary":     4000,
			},
		},
		uploads: map[string]int64{},
		fail:    map[string]int{},
	}
}

func (b *fakeBackend) failOn(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[method+" "+path] = status
}

func (b *fakeBackend) uploadSize(filename string) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size, ok := b.uploads[filename]
	return size, ok
}

func (b *fakeBackend) callCount(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, call := range b.calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}

	return count
}

func (b *fakeBackend) lastCall() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.calls) == 0 {
		return ""
	}
	return b.calls[len(b.calls)-1]
}

func (b *fakeBackend) setEmployees(list []map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.employees = list
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.auth) == 0 {
		return ""
	}
	return b.auth[len(b.auth)-1]
}

func (b *fakeBackend) recordedForms() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]map[string]string(nil), b.forms...)
}

// perWord converts a stored record to the shape of the single-record and search endpoints.
func perWord(employee map[string]any) map[string]any {
	picture, _ := employee["profileImageUrl"].(string)

	return map[string]any{
		"profile_picture": strings.TrimPrefix(picture, "/uploads/"),
		"_id":             employee["_id"],
		"first_name":      employee["firstName"],
		"last_name":       employee["lastName"],
		"email":           employee["email"],
		"position":        employee["position"],
		"department":      employee["department"],
		"date_of_joining": employee["dateOfJoining"],
		"salary":          employee["salary"],
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	call := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	b.calls = append(b.calls, call)
	b.auth = append(b.auth, r.Header.Get("Authorization"))

	if status, ok := b.fail[r.Method+" "+r.URL.Path]; ok {
		writeJSON(w, status, map[string]string{"message": "backend exploded"})
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users/login":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": b.token})

	case r.Method == http.MethodPost && r.URL.Path == "/users/signup":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] == "taken@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})

	case r.Method == http.MethodGet && r.URL.Path == "/employees":
		writeJSON(w, http.StatusOK, b.employees)

	case r.Method == http.MethodGet && r.URL.Path == "/employees/search":
		department, position := r.URL.Query().Get("department"), r.URL.Query().Get("position")
		matches := []map[string]any{}
		for _, employee := range b.employees {
			if (department == "" || employee["department"] == department) &&
				(position == "" || employee["position"] == position) {
				matches = append(matches, perWord(employee))
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": matches})

	case r.Method == http.MethodPost && r.URL.Path == "/employees":
		b.forms = append(b.forms, b.readMultipart(r))
		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})

	case strings.HasPrefix(r.URL.Path, "/employees/"):
		b.serveEmployee(w, r, strings.TrimPrefix(r.URL.Path, "/employees/"))

	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) serveEmployee(w http.ResponseWriter, r *http.Request, id string) {
	index := -1
	for i, employee := range b.employees {
		if employee["_id"] == id {
			index = i
		}
	}
	if index < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Employee not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": perWord(b.employees[index])})
	case http.MethodPut:
		b.forms = append(b.forms, b.readMultipart(r))
		writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
	case http.MethodDelete:
		b.employees = append(b.employees[:index], b.employees[index+1:]...)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) readMultipart(r *http.Request) map[string]string {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		b.t.Errorf("backend expected multipart body: %v", err)
		return nil
	}

	fields := map[string]string{}
	for name, values := range r.MultipartForm.Value {
		fields[name] = values[0]
	}
	for name, headers := range r.MultipartForm.File {
		fields[name] = headers[0].Filename
		b.uploads[headers[0].Filename] = headers[0].Size
	}

	return fields
}

type app struct {
	router  *gin.Engine
	server  *httptest.Server
	backend *fakeBackend
	repo    *repository.MemoryRepository
	metrics *metrics.Metrics
	baseURL string
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newFakeBackend(t)
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	log := slog.New(slog.DiscardHandler)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	api := client.New(log, client.CreateHTTPClient(log, 2*time.Second, server.URL), server.URL, m)
	repo := repository.NewMemorySessionRepository(log)

	handler := web.NewHandler(
		log,
		auth.NewStore(log, api, repo, m),
		employees.NewDirectory(log, api, m),
		m,
		web.Options{CookieName: cookieName, AssetBase: api.BaseURL()},
	)

	return &app{router: handler.Router(), server: server, backend: backend, repo: repo, metrics: m, baseURL: server.URL}
}

// signIn stores a session the way a successful login does.
func (a *app) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, a.repo.SaveSession(context.Background(), sessionID, a.backend.token))
}

func (a *app) do(t *testing.T, req *http.Request, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	if withSession {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	return rec
}

func (a *app) get(t *testing.T, target string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	return a.do(t, req, withSession)
}

func (a *app) postForm(t *testing.T, target string, values url.Values, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req, withSession)
}

type upload struct {
	filename string
	data     []byte
}

func (a *app) postMultipart(
	t *testing.T,
	target string,
	values map[string]string,
	file *upload,
) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range values {
		require.NoError(t, writer.WriteField(name, value))
	}
	if file != nil {
		part, err := writer.CreateFormFile("profilePicture", file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return a.do(t, req, true)
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	return doc
}
