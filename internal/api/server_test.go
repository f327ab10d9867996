package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/security"
	"github.com/codewithboateng/wglint/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return &Server{DB: db, UserStore: db, SessionDuration: time.Hour}, db
}

func seedUser(t *testing.T, db *storage.DB, username, password, role string) {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateUser(username, hash, role); err != nil {
		t.Fatal(err)
	}
}

func login(t *testing.T, h http.Handler, username, password string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRunsEndpoints(t *testing.T) {
	s, db := newTestServer(t)
	run := ir.Run{
		ID:        "run-1",
		StartedAt: time.Now().UTC(),
		Issues: []ir.LintIssue{
			{Code: "WGL011", Severity: ir.SeverityError, Message: "Job should have an explicit stage", FilePath: "ci.py", Line: 3},
			{Code: "WGL023", Severity: ir.SeverityInfo, Message: "Script jobs should specify an image for reproducible builds", FilePath: "ci.py", Line: 3},
		},
		FilesChecked: 1,
	}
	if err := db.SaveRun(&run); err != nil {
		t.Fatal(err)
	}
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs", nil))
	var list struct {
		Items []storage.RunRow `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 1 || list.Items[0].Issues != 2 {
		t.Fatalf("runs list: %+v", list.Items)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/run-1", nil))
	var got ir.Run
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "run-1" || len(got.Issues) != 2 {
		t.Fatalf("run: %+v", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/latest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("latest: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/run-1/issues?min_severity=error", nil))
	var issues struct {
		Items []ir.LintIssue `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&issues); err != nil {
		t.Fatal(err)
	}
	if len(issues.Items) != 1 || issues.Items[0].Code != "WGL011" {
		t.Fatalf("severity floor: %+v", issues.Items)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing run: status %d", rec.Code)
	}
}

func TestRulesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/rules", nil))
	var out struct {
		Items []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"items"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Count < 25 {
		t.Fatalf("rule inventory too small: %d", out.Count)
	}
	seen := map[string]bool{}
	for _, r := range out.Items {
		seen[r.Code] = true
	}
	if !seen["WGL010"] || !seen["WGL024"] {
		t.Fatalf("missing codes in %v", out.Items)
	}
}

func TestAuthAndWaiverFlow(t *testing.T) {
	s, db := newTestServer(t)
	seedUser(t, db, "admin", "s3cret!pass", "admin")
	seedUser(t, db, "viewer", "v1ewer!pass", "viewer")
	h := s.Routes()

	// unauthenticated waiver list is rejected
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/waivers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status %d", rec.Code)
	}

	adminCookie := login(t, h, "admin", "s3cret!pass")
	viewerCookie := login(t, h, "viewer", "v1ewer!pass")

	// viewer may list but not create
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/waivers", nil)
	req.AddCookie(viewerCookie)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("viewer list: status %d", rec.Code)
	}

	create := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		body, _ := json.Marshal(waiverCreateReq{
			Code:      "WGL023",
			Reason:    "advisory noise during migration",
			ExpiresAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		})
		req := httptest.NewRequest("POST", "/api/v1/waivers", bytes.NewReader(body))
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	if rec := create(viewerCookie); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer create: status %d", rec.Code)
	}
	rec2 := create(adminCookie)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("admin create: status %d body %s", rec2.Code, rec2.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(rec2.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	// revoke, then the active list is empty again
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/v1/waivers/%d/revoke", created.ID), nil)
	req.AddCookie(adminCookie)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: status %d body %s", rec.Code, rec.Body.String())
	}
	ws, err := db.ListWaivers(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 0 {
		t.Fatalf("active after revoke: %+v", ws)
	}

	// logout invalidates the session
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	req.AddCookie(adminCookie)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/me", nil)
	req.AddCookie(adminCookie)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", rec.Code)
	}
}
