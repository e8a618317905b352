package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	sessA = "11111111-1111-1111-1111-111111111111"
	sessB = "22222222-2222-2222-2222-222222222222"
	sessC = "33333333-3333-3333-3333-333333333333"
)

func writeSession(t *testing.T, root, project, id, firstLine string) string {
	t.Helper()
	dir := filepath.Join(root, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(path, []byte(firstLine+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListProjects(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "Users-alice-work-demo", sessA,
		`{"sessionId":"`+sessA+`","cwd":"/Users/alice/work/demo","type":"user"}`)
	// Empty project directory: still listable.
	if err := os.MkdirAll(filepath.Join(root, "Users-bob-empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	ix := NewIndexAt(root)
	projects, err := ix.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}

	byDir := map[string]int{}
	for i, p := range projects {
		byDir[p.DirName] = i
	}

	demo := projects[byDir["Users-alice-work-demo"]]
	if demo.Path != "/Users/alice/work/demo" {
		t.Errorf("cwd evidence not used: %q", demo.Path)
	}
	if len(demo.SessionIDs) != 1 || demo.SessionIDs[0] != sessA {
		t.Errorf("sessions: %v", demo.SessionIDs)
	}

	empty := projects[byDir["Users-bob-empty"]]
	if empty.Path != "/Users/bob/empty" {
		t.Errorf("desanitize fallback: %q", empty.Path)
	}
	if len(empty.SessionIDs) != 0 {
		t.Errorf("empty project has sessions: %v", empty.SessionIDs)
	}
}

func TestListProjectsNoRoot(t *testing.T) {
	ix := NewIndexAt(filepath.Join(t.TempDir(), "absent"))
	if _, err := ix.ListProjects(); !errors.Is(err, ErrNoLogRoot) {
		t.Errorf("got %v, want ErrNoLogRoot", err)
	}
}

// cwd recorded in a session beats whatever desanitization would guess,
// which matters for paths that contained hyphens.
func TestResolvePathPrefersCwdEvidence(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "home-alice-my-project", sessA,
		`{"sessionId":"`+sessA+`","cwd":"/home/alice/my-project"}`)

	ix := NewIndexAt(root)
	path, err := ix.ResolvePath("home-alice-my-project")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if path != "/home/alice/my-project" {
		t.Errorf("got %q, want the recorded cwd", path)
	}
}

func TestResolvePathFallsBackOnMalformedFirstLine(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "work-demo", sessA, `{"torn line`)

	ix := NewIndexAt(root)
	path, err := ix.ResolvePath("work-demo")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if path != "/work/demo" {
		t.Errorf("got %q, want desanitized fallback", path)
	}
}

func TestSessionsIgnoresNonSessionFiles(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "work-demo", sessA, `{}`)
	dir := filepath.Join(root, "work-demo")
	for _, name := range []string{"notes.txt", "agent-7.jsonl", "not-a-uuid.jsonl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ix := NewIndexAt(root)
	ids, err := ix.Sessions("work-demo")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(ids) != 1 || ids[0] != sessA {
		t.Errorf("ids = %v", ids)
	}
}

func TestFindProjectForCwd(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "work-demo", sessA, `{"cwd":"/work/demo"}`)

	ix := NewIndexAt(root)

	p, err := ix.FindProjectForCwd("/work/demo")
	if err != nil {
		t.Fatalf("FindProjectForCwd: %v", err)
	}
	if p.DirName != "work-demo" {
		t.Errorf("matched %q", p.DirName)
	}

	// Exact match only: a subdirectory of a known project is not it.
	if _, err := ix.FindProjectForCwd("/work/demo/sub"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("got %v, want ErrProjectNotFound", err)
	}
}

func TestFindSession(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "work-demo", sessA, `{"cwd":"/work/demo"}`)

	ix := NewIndexAt(root)

	s, err := ix.FindSession(sessA)
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if s.ProjectPath != "/work/demo" || s.FilePath == "" {
		t.Errorf("session: %+v", s)
	}

	if _, err := ix.FindSession(sessB); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestMostRecentSession(t *testing.T) {
	root := t.TempDir()
	oldPath := writeSession(t, root, "work-old", sessA, `{}`)
	newPath := writeSession(t, root, "work-new", sessB, `{}`)

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, old, old); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(newPath, now, now); err != nil {
		t.Fatal(err)
	}

	ix := NewIndexAt(root)
	s, err := ix.MostRecentSession()
	if err != nil {
		t.Fatalf("MostRecentSession: %v", err)
	}
	if s.SessionID != sessB {
		t.Errorf("got %q, want %q", s.SessionID, sessB)
	}
}

func TestMostRecentSessionTieBreaksLexicographically(t *testing.T) {
	root := t.TempDir()
	p1 := writeSession(t, root, "work-demo", sessC, `{}`)
	p2 := writeSession(t, root, "work-demo", sessB, `{}`)

	same := time.Now().Truncate(time.Second)
	for _, p := range []string{p1, p2} {
		if err := os.Chtimes(p, same, same); err != nil {
			t.Fatal(err)
		}
	}

	ix := NewIndexAt(root)
	s, err := ix.MostRecentSession()
	if err != nil {
		t.Fatalf("MostRecentSession: %v", err)
	}
	if s.SessionID != sessB {
		t.Errorf("tie broke to %q, want lexicographically smaller %q", s.SessionID, sessB)
	}
}

func TestMostRecentSessionEmpty(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "work-demo"), 0o755); err != nil {
		t.Fatal(err)
	}

	ix := NewIndexAt(root)
	if _, err := ix.MostRecentSession(); !errors.Is(err, ErrNoSessions) {
		t.Errorf("got %v, want ErrNoSessions", err)
	}
}

func TestSessionsDetailedOrdering(t *testing.T) {
	root := t.TempDir()
	pA := writeSession(t, root, "work-demo", sessA, `{"cwd":"/work/demo"}`)
	pB := writeSession(t, root, "work-demo", sessB, `{"cwd":"/work/demo"}`)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(pA, old, old); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(pB, now, now); err != nil {
		t.Fatal(err)
	}

	ix := NewIndexAt(root)
	projects, err := ix.ListProjects()
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := ix.SessionsDetailed(projects[0])
	if err != nil {
		t.Fatalf("SessionsDetailed: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != sessB {
		t.Errorf("order wrong: %+v", sessions)
	}
}
