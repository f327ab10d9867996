package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codewithboateng/wglint/internal/ir"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func sampleRun(id string, startedAt time.Time) ir.Run {
	return ir.Run{
		ID:        id,
		StartedAt: startedAt,
		Source:    "pipelines/",
		IRVersion: ir.Version,
		Jobs: []ir.JobDecl{
			{Name: "build", VarName: "build", FilePath: "ci.py", Line: 3, Stage: "build"},
		},
		Issues: []ir.LintIssue{
			{Code: "WGL011", Severity: ir.SeverityError, Message: "Job should have an explicit stage", FilePath: "ci.py", Line: 3},
			{Code: "WGL010", Severity: ir.SeverityError, Message: "Use typed When constants instead of string literals",
				FilePath: "ci.py", Line: 4, Original: `when="manual"`, Suggestion: "when=When.MANUAL"},
		},
		FilesChecked: 1,
	}
}

func TestSaveLoadRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	if err := db.SaveRun(&run); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadRun("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != run.ID || got.FilesChecked != 1 || len(got.Issues) != 2 || len(got.Jobs) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Issues[1].Fixable() {
		t.Error("fix metadata lost in round trip")
	}

	if _, err := db.LoadRun("missing"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestSaveRun_UpsertReplacesIssues(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	if err := db.SaveRun(&run); err != nil {
		t.Fatal(err)
	}
	run.Issues = run.Issues[:1]
	if err := db.SaveRun(&run); err != nil {
		t.Fatal(err)
	}

	rows, err := db.ListRuns(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Issues != 1 {
		t.Fatalf("got %+v", rows)
	}
}

func TestLoadLatestRun(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	old := sampleRun("run-old", base)
	newer := sampleRun("run-new", base.Add(time.Hour))
	if err := db.SaveRun(&old); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(&newer); err != nil {
		t.Fatal(err)
	}
	got, err := db.LoadLatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "run-new" {
		t.Fatalf("latest = %s", got.ID)
	}
}

func TestListIssues_SeverityFloor(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Now().UTC())
	run.Issues = append(run.Issues, ir.LintIssue{
		Code: "WGL023", Severity: ir.SeverityInfo,
		Message: "Script jobs should specify an image for reproducible builds",
		FilePath: "ci.py", Line: 3,
	})
	if err := db.SaveRun(&run); err != nil {
		t.Fatal(err)
	}

	all, err := db.ListIssues("run-1", ir.SeverityInfo)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("info floor: got %d", len(all))
	}
	errsOnly, err := db.ListIssues("run-1", ir.SeverityError)
	if err != nil {
		t.Fatal(err)
	}
	if len(errsOnly) != 2 {
		t.Fatalf("error floor: got %d", len(errsOnly))
	}
}

func TestWaivers_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	future := time.Now().Add(24 * time.Hour)

	id, err := db.CreateWaiver("WGL023", "", "image", "advisory noise", "admin", future)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateWaiver("WGL011", "", "", "expired already", "admin", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	active, err := db.ListWaivers(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != id || active[0].Code != "WGL023" {
		t.Fatalf("active waivers: %+v", active)
	}

	if err := db.RevokeWaiver(id, "admin"); err != nil {
		t.Fatal(err)
	}
	active, err = db.ListWaivers(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("revoked waiver still active: %+v", active)
	}

	all, err := db.ListWaivers(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("all waivers: got %d", len(all))
	}
}

func TestUsersAndSessions(t *testing.T) {
	db := openTestDB(t)
	uid, err := db.CreateUser("alice", "hash-value", "admin")
	if err != nil {
		t.Fatal(err)
	}
	u, hash, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != uid || u.Role != "admin" || hash != "hash-value" {
		t.Fatalf("got %+v hash=%q", u, hash)
	}

	if err := db.CreateSession(uid, "tok-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got, err := db.GetSession("tok-1"); err != nil || got.Username != "alice" {
		t.Fatalf("session lookup: %+v err=%v", got, err)
	}

	if err := db.CreateSession(uid, "tok-stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetSession("tok-stale"); err == nil {
		t.Fatal("expired session must not resolve")
	}

	if err := db.DeleteSession("tok-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetSession("tok-1"); err == nil {
		t.Fatal("deleted session must not resolve")
	}
}
