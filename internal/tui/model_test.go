package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"batchman/config"
	"batchman/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// stubBackend implements Backend for tests without touching the network.
type stubBackend struct {
	batches []api.BatchJob
	files   []api.StoredFile
	content string

	listBatchesErr error
	deleteErr      error

	deletedIDs  []string
	cancelledID string
}

func (s *stubBackend) ListBatches(ctx context.Context, limit int64, after string) ([]api.BatchJob, string, bool, error) {
	return s.batches, "", false, s.listBatchesErr
}

func (s *stubBackend) GetBatch(ctx context.Context, id string) (*api.BatchJob, error) {
	for i := range s.batches {
		if s.batches[i].ID == id {
			return &s.batches[i], nil
		}
	}
	return nil, &api.NotFoundError{Err: errors.New("no such batch")}
}

func (s *stubBackend) CancelBatch(ctx context.Context, id string) (*api.BatchJob, error) {
	s.cancelledID = id
	job := api.BatchJob{ID: id, Status: "cancelling"}
	return &job, nil
}

func (s *stubBackend) ListFiles(ctx context.Context) ([]api.StoredFile, error) {
	return s.files, nil
}

func (s *stubBackend) UploadFile(ctx context.Context, path, purpose string) (*api.StoredFile, error) {
	return &api.StoredFile{ID: "file_new", Filename: path}, nil
}

func (s *stubBackend) DeleteFile(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubBackend) FileName(ctx context.Context, id string) (string, error) {
	return "stored.jsonl", nil
}

func (s *stubBackend) FileContent(ctx context.Context, id string) ([]byte, error) {
	return []byte(s.content), nil
}

func newTestModel(stub *stubBackend) Model {
	cfg := &config.Result{
		Profiles: []config.Profile{
			{Name: "personal", APIKey: "sk-personal-key"},
			{Name: "work", APIKey: "sk-work-key"},
			{Name: "broken", APIKey: ""},
		},
		Path: "/tmp/config.ini",
	}
	return NewModel(cfg, func(apiKey string) Backend { return stub })
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", updated)
	}
	return next, cmd
}

func TestProfileNavigation(t *testing.T) {
	m := newTestModel(&stubBackend{})

	m, _ = update(t, m, keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	m, _ = update(t, m, keyMsg("G"))
	if m.cursor != 2 {
		t.Errorf("cursor after G = %d, want 2", m.cursor)
	}

	m, _ = update(t, m, keyMsg("j"))
	if m.cursor != 2 {
		t.Errorf("cursor must not move past last profile, got %d", m.cursor)
	}

	m, _ = update(t, m, keyMsg("g"))
	if m.cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", m.cursor)
	}

	m, _ = update(t, m, keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor must not move above first profile, got %d", m.cursor)
	}
}

func TestSelectProfileLoadsBatches(t *testing.T) {
	stub := &stubBackend{}
	m := newTestModel(stub)

	m, cmd := update(t, m, keyMsg("enter"))

	if m.viewState != ViewBatches {
		t.Errorf("viewState = %v, want ViewBatches", m.viewState)
	}
	if m.client == nil {
		t.Error("client not created on profile selection")
	}
	if m.profileName != "personal" {
		t.Errorf("profileName = %q, want personal", m.profileName)
	}
	if !m.loading {
		t.Error("loading must be true while the first listing is in flight")
	}
	if cmd == nil {
		t.Error("selecting a profile must issue a fetch command")
	}
}

func TestSelectProfileRejectsMissingKey(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m.cursor = 2 // "broken" has no key

	m, cmd := update(t, m, keyMsg("enter"))

	if m.viewState != ViewProfiles {
		t.Errorf("viewState = %v, want ViewProfiles", m.viewState)
	}
	if m.errorMsg == "" {
		t.Error("selecting a keyless profile must set an error message")
	}
	if cmd != nil {
		t.Error("selecting a keyless profile must not issue commands")
	}
}

func TestBatchesLoadedPopulatesTable(t *testing.T) {
	stub := &stubBackend{}
	m := newTestModel(stub)
	m, _ = update(t, m, keyMsg("enter"))

	m, _ = update(t, m, BatchesLoadedMsg{
		Seq: m.seq,
		Jobs: []api.BatchJob{
			{ID: "batch_a", Status: "completed"},
			{ID: "batch_b", Status: "in_progress"},
		},
		NextAfter: "batch_b",
		HasMore:   true,
	})

	if m.loading {
		t.Error("loading must clear once results land")
	}
	if len(m.batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(m.batches))
	}
	if len(m.batchTable.Rows()) != 2 {
		t.Errorf("table rows = %d, want 2", len(m.batchTable.Rows()))
	}
	if !m.hasMore || m.nextAfter != "batch_b" {
		t.Errorf("pagination state = %v/%q, want true/batch_b", m.hasMore, m.nextAfter)
	}
}

func TestLoadMoreAppends(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:       m.seq,
		Jobs:      []api.BatchJob{{ID: "batch_a", Status: "completed"}},
		NextAfter: "batch_a",
		HasMore:   true,
	})

	m, cmd := update(t, m, keyMsg("m"))
	if cmd == nil {
		t.Fatal("m with hasMore must issue a fetch command")
	}

	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:    m.seq,
		Jobs:   []api.BatchJob{{ID: "batch_b", Status: "completed"}},
		Append: true,
	})

	if len(m.batches) != 2 {
		t.Fatalf("batches after load-more = %d, want 2", len(m.batches))
	}
	if m.batches[0].ID != "batch_a" || m.batches[1].ID != "batch_b" {
		t.Errorf("append order wrong: %v", m.batches)
	}
	if m.hasMore {
		t.Error("hasMore must follow the last page")
	}
}

func TestStaleResultDropped(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	staleSeq := m.seq

	// The user backs out to the profile list before results land.
	m, _ = update(t, m, keyMsg("p"))
	if m.viewState != ViewProfiles {
		t.Fatalf("viewState = %v, want ViewProfiles", m.viewState)
	}

	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  staleSeq,
		Jobs: []api.BatchJob{{ID: "batch_stale", Status: "completed"}},
	})

	if len(m.batches) != 0 {
		t.Errorf("stale result applied: %d batches, want 0", len(m.batches))
	}
	if m.message != "" {
		t.Errorf("stale result set message %q", m.message)
	}
}

func TestAuthErrorSurfaced(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))

	m, _ = update(t, m, BatchesLoadedMsg{
		Seq: m.seq,
		Err: &api.AuthError{Err: errors.New("401")},
	})

	if m.errorMsg == "" {
		t.Fatal("auth failure must surface in the status bar")
	}
	if m.viewState != ViewBatches {
		t.Errorf("viewState = %v, want ViewBatches (stay put, offer retry)", m.viewState)
	}
}

func TestCancelGuardOnFinishedBatch(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  m.seq,
		Jobs: []api.BatchJob{{ID: "batch_done", Status: "completed"}},
	})

	m, _ = update(t, m, keyMsg("c"))

	if m.viewState != ViewBatches {
		t.Errorf("viewState = %v, want ViewBatches (no confirm for finished batch)", m.viewState)
	}
	if m.errorMsg == "" {
		t.Error("cancelling a finished batch must explain why it is refused")
	}
}

func TestCancelConfirmFlow(t *testing.T) {
	stub := &stubBackend{}
	m := newTestModel(stub)
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  m.seq,
		Jobs: []api.BatchJob{{ID: "batch_run", Status: "in_progress"}},
	})

	m, _ = update(t, m, keyMsg("c"))
	if m.viewState != ViewConfirm || m.confirmKind != confirmCancelBatch {
		t.Fatalf("c must open cancel confirmation, got state %v kind %v", m.viewState, m.confirmKind)
	}

	m, cmd := update(t, m, keyMsg("y"))
	if m.viewState != ViewBatches {
		t.Errorf("viewState after confirm = %v, want ViewBatches", m.viewState)
	}
	if cmd == nil {
		t.Fatal("confirming must issue the cancel command")
	}

	m, _ = update(t, m, BatchCancelledMsg{
		Seq: m.seq,
		Job: &api.BatchJob{ID: "batch_run", Status: "cancelling"},
	})
	if m.message == "" {
		t.Error("cancel result must surface in the status bar")
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	stub := &stubBackend{}
	m := newTestModel(stub)
	m, _ = update(t, m, keyMsg("enter"))
	m.viewState = ViewFiles
	m, _ = update(t, m, FilesLoadedMsg{
		Seq:   m.seq,
		Files: []api.StoredFile{{ID: "file_1", Filename: "input.jsonl"}},
	})

	m, _ = update(t, m, keyMsg("d"))
	if m.viewState != ViewConfirm || m.confirmKind != confirmDeleteFile {
		t.Fatalf("d must open delete confirmation, got state %v kind %v", m.viewState, m.confirmKind)
	}
	if m.confirmID != "file_1" || m.confirmLabel != "input.jsonl" {
		t.Errorf("confirm target = %q/%q, want file_1/input.jsonl", m.confirmID, m.confirmLabel)
	}

	// Declining leaves the file alone.
	m, _ = update(t, m, keyMsg("n"))
	if m.viewState != ViewFiles {
		t.Errorf("viewState after decline = %v, want ViewFiles", m.viewState)
	}

	// Confirming issues the deletion.
	m, _ = update(t, m, keyMsg("d"))
	m, cmd := update(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirming must issue the delete command")
	}

	m, cmd = update(t, m, FileDeletedMsg{Seq: m.seq, ID: "file_1", Filename: "input.jsonl"})
	if m.message == "" {
		t.Error("successful delete must surface in the status bar")
	}
	if cmd == nil {
		t.Error("successful delete must refresh the file listing")
	}
}

func TestDeleteAlreadyGoneRefreshes(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m.viewState = ViewFiles
	m.nextSeq()

	m, cmd := update(t, m, FileDeletedMsg{
		Seq:      m.seq,
		ID:       "file_1",
		Filename: "input.jsonl",
		Err:      &api.NotFoundError{Err: errors.New("gone")},
	})

	if m.errorMsg != "" {
		t.Errorf("deleting an already-gone file is not an error, got %q", m.errorMsg)
	}
	if m.message == "" {
		t.Error("already-gone delete must still explain what happened")
	}
	if cmd == nil {
		t.Error("already-gone delete must reconcile via a refresh")
	}
}

func TestLogNotFoundFallsBack(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  m.seq,
		Jobs: []api.BatchJob{{ID: "batch_a", Status: "completed", OutputFileID: "file_out"}},
	})

	m, _ = update(t, m, keyMsg("o"))
	if m.viewState != ViewLog {
		t.Fatalf("o must open the log view, got %v", m.viewState)
	}

	m, _ = update(t, m, LogLoadedMsg{
		Seq: m.seq,
		Err: &api.NotFoundError{Err: errors.New("gone")},
	})

	if m.viewState != ViewBatches {
		t.Errorf("viewState = %v, want ViewBatches after log vanished", m.viewState)
	}
	if m.message == "" {
		t.Error("vanished log must surface a message")
	}
}

func TestLogWithoutFileID(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  m.seq,
		Jobs: []api.BatchJob{{ID: "batch_a", Status: "in_progress"}},
	})

	m, cmd := update(t, m, keyMsg("e"))
	if m.viewState != ViewBatches {
		t.Errorf("viewState = %v, want ViewBatches when no error file exists", m.viewState)
	}
	if m.errorMsg == "" {
		t.Error("missing log file must surface an error message")
	}
	if cmd != nil {
		t.Error("missing log file must not issue commands")
	}
}

func TestHelpRoundTrip(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))

	m, _ = update(t, m, keyMsg("?"))
	if m.viewState != ViewHelp {
		t.Fatalf("? must open help, got %v", m.viewState)
	}

	m, _ = update(t, m, keyMsg("esc"))
	if m.viewState != ViewBatches {
		t.Errorf("Esc must return to the previous view, got %v", m.viewState)
	}
}

func TestProfileSwitchClearsSession(t *testing.T) {
	m := newTestModel(&stubBackend{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, BatchesLoadedMsg{
		Seq:  m.seq,
		Jobs: []api.BatchJob{{ID: "batch_a", Status: "completed"}},
	})

	m, _ = update(t, m, keyMsg("p"))

	if m.client != nil {
		t.Error("returning to profiles must drop the client")
	}
	if m.profileName != "" || len(m.batches) != 0 {
		t.Errorf("session state leaked: profile=%q batches=%d", m.profileName, len(m.batches))
	}
}

func TestRenderLogContentSummaries(t *testing.T) {
	raw := `{"custom_id":"req-1","response":{"status_code":200,"body":{"ok":true}}}` + "\n" +
		`{"custom_id":"req-2","error":{"message":"rate limited"}}` + "\n"

	content := renderLogContent(raw)
	for _, want := range []string{"req-1", "req-2", "rate limited"} {
		if !strings.Contains(content, want) {
			t.Errorf("renderLogContent() missing %q", want)
		}
	}
}
