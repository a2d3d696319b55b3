// Package tui provides the interactive terminal interface for batchman.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"batchman/config"
	"batchman/internal/api"
	"batchman/internal/jsonl"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewProfiles    ViewState = iota // Profile selection list
	ViewBatches                      // Batch job table
	ViewBatchDetail                  // Single batch detail
	ViewFiles                        // Stored file table
	ViewLog                          // Output/error log viewer
	ViewConfirm                      // Destructive-action confirmation
	ViewUpload                       // File picker for uploads
	ViewHelp                         // Help panel
)

// confirmKind selects what the confirmation dialog will do.
type confirmKind int

const (
	confirmDeleteFile confirmKind = iota
	confirmCancelBatch
)

const (
	batchPageSize = 20
	downloadDir   = "downloads"
)

// Backend is the slice of the API adapter the TUI needs. Tests provide a
// stub implementation.
type Backend interface {
	ListBatches(ctx context.Context, limit int64, after string) ([]api.BatchJob, string, bool, error)
	GetBatch(ctx context.Context, id string) (*api.BatchJob, error)
	CancelBatch(ctx context.Context, id string) (*api.BatchJob, error)
	ListFiles(ctx context.Context) ([]api.StoredFile, error)
	UploadFile(ctx context.Context, path string, purpose string) (*api.StoredFile, error)
	DeleteFile(ctx context.Context, id string) error
	FileName(ctx context.Context, id string) (string, error)
	FileContent(ctx context.Context, id string) ([]byte, error)
}

// Model is the core state model for the TUI
type Model struct {
	// Profile selection
	profiles      []config.Profile
	configPath    string
	configCreated bool
	cursor        int
	scrollOffset  int

	// Active session
	newClient   func(apiKey string) Backend
	client      Backend
	profileName string

	// In-flight request tracking; results carrying a stale seq are dropped
	seq     int
	loading bool

	// Server-side mirrors
	batches    []api.BatchJob
	nextAfter  string
	hasMore    bool
	files      []api.StoredFile
	detail     *api.BatchJob
	inputName  string
	outputName string

	// Widgets
	batchTable table.Model
	fileTable  table.Model
	logView    viewport.Model
	picker     filepicker.Model
	spin       spinner.Model

	// Log view state
	logTitle  string
	logFileID string
	logReturn ViewState

	// Confirmation dialog state
	confirmKind  confirmKind
	confirmID    string
	confirmLabel string

	viewState  ViewState
	helpReturn ViewState

	// Messages and errors
	message  string
	errorMsg string

	width  int
	height int
}

// NewModel creates a new TUI model. newClient builds a backend for the
// selected profile's key.
func NewModel(cfg *config.Result, newClient func(apiKey string) Backend) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = messageStyle

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()

	return Model{
		profiles:      cfg.Profiles,
		configPath:    cfg.Path,
		configCreated: cfg.Created,
		newClient:     newClient,
		viewState:     ViewProfiles,
		batchTable:    newBatchTable(),
		fileTable:     newFileTable(),
		logView:       viewport.New(80, 20),
		picker:        fp,
		spin:          sp,
		width:         80,
		height:        24,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeWidgets()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case BatchesLoadedMsg:
		return m.handleBatchesLoaded(msg)

	case BatchDetailMsg:
		return m.handleBatchDetail(msg)

	case BatchCancelledMsg:
		return m.handleBatchCancelled(msg)

	case FilesLoadedMsg:
		return m.handleFilesLoaded(msg)

	case FileDeletedMsg:
		return m.handleFileDeleted(msg)

	case FileUploadedMsg:
		return m.handleFileUploaded(msg)

	case LogLoadedMsg:
		return m.handleLogLoaded(msg)

	case DownloadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errorMsg = errorText(msg.Err)
		} else {
			m.message = "saved to " + msg.Path
		}
		return m, nil
	}

	// Let the file picker see every message while it is on screen; it
	// relies on internal messages for directory reads.
	if m.viewState == ViewUpload {
		return m.updatePicker(msg)
	}

	return m, nil
}

// handleKeyMsg routes keyboard input by view state
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewState {
	case ViewProfiles:
		return m.handleProfilesKeys(msg)
	case ViewBatches:
		return m.handleBatchesKeys(msg)
	case ViewBatchDetail:
		return m.handleDetailKeys(msg)
	case ViewFiles:
		return m.handleFilesKeys(msg)
	case ViewLog:
		return m.handleLogKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewUpload:
		return m.handleUploadKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m, nil
	}
}

func (m Model) handleProfilesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if len(m.profiles) > 0 && m.cursor < len(m.profiles)-1 {
			m.cursor++
			m.adjustScrollOffset()
		}
		m.errorMsg = ""
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.adjustScrollOffset()
		}
		m.errorMsg = ""
		return m, nil

	case "g":
		m.cursor = 0
		m.scrollOffset = 0
		return m, nil

	case "G":
		if len(m.profiles) > 0 {
			m.cursor = len(m.profiles) - 1
			m.adjustScrollOffset()
		}
		return m, nil

	case "enter":
		return m.selectProfile()

	case "?":
		m.helpReturn = m.viewState
		m.viewState = ViewHelp
		return m, nil
	}

	return m, nil
}

// selectProfile activates the profile under the cursor and loads its
// batch listing.
func (m Model) selectProfile() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.profiles) {
		return m, nil
	}

	p := m.profiles[m.cursor]
	if p.APIKey == "" || !strings.HasPrefix(p.APIKey, "sk-") {
		m.errorMsg = fmt.Sprintf("profile '%s' has no usable api_key, edit %s", p.Name, m.configPath)
		return m, nil
	}

	m.client = m.newClient(p.APIKey)
	m.profileName = p.Name
	m.message = ""
	m.errorMsg = ""
	m.batches = nil
	m.files = nil
	m.viewState = ViewBatches
	cmd := m.refreshBatches()
	return m, cmd
}

func (m Model) handleBatchesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		cmd := m.refreshBatches()
		return m, cmd

	case "m":
		if m.hasMore && !m.loading {
			seq := m.nextSeq()
			m.loading = true
			return m, tea.Batch(m.spin.Tick, listBatches(m.client, seq, m.nextAfter, true))
		}
		return m, nil

	case "enter":
		if job := m.selectedBatch(); job != nil {
			seq := m.nextSeq()
			m.loading = true
			m.viewState = ViewBatchDetail
			m.detail = nil
			return m, tea.Batch(m.spin.Tick, getBatchDetail(m.client, seq, job.ID))
		}
		return m, nil

	case "o":
		if job := m.selectedBatch(); job != nil {
			return m.openLog(job.OutputFileID, "output log: "+job.ID, ViewBatches)
		}
		return m, nil

	case "e":
		if job := m.selectedBatch(); job != nil {
			return m.openLog(job.ErrorFileID, "error log: "+job.ID, ViewBatches)
		}
		return m, nil

	case "c":
		if job := m.selectedBatch(); job != nil {
			if job.Status == "completed" || job.Status == "failed" ||
				job.Status == "expired" || job.Status == "cancelled" {
				m.errorMsg = fmt.Sprintf("batch %s is already %s", job.ID, job.Status)
				return m, nil
			}
			m.confirmKind = confirmCancelBatch
			m.confirmID = job.ID
			m.confirmLabel = job.ID
			m.viewState = ViewConfirm
		}
		return m, nil

	case "f":
		m.viewState = ViewFiles
		cmd := m.refreshFiles()
		return m, cmd

	case "p":
		// Back to profile selection; drop the session so late results
		// from this profile cannot land on the next one.
		m.nextSeq()
		m.client = nil
		m.profileName = ""
		m.loading = false
		m.batches = nil
		m.files = nil
		m.message = ""
		m.errorMsg = ""
		m.viewState = ViewProfiles
		return m, nil

	case "?":
		m.helpReturn = m.viewState
		m.viewState = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.batchTable, cmd = m.batchTable.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewState = ViewBatches
		m.detail = nil
		return m, nil

	case "r":
		if m.detail != nil {
			seq := m.nextSeq()
			m.loading = true
			return m, tea.Batch(m.spin.Tick, getBatchDetail(m.client, seq, m.detail.ID))
		}
		return m, nil

	case "o":
		if m.detail != nil {
			return m.openLog(m.detail.OutputFileID, "output log: "+m.detail.ID, ViewBatchDetail)
		}
		return m, nil

	case "e":
		if m.detail != nil {
			return m.openLog(m.detail.ErrorFileID, "error log: "+m.detail.ID, ViewBatchDetail)
		}
		return m, nil

	case "d":
		if m.detail != nil && m.detail.OutputFileID != "" {
			seq := m.nextSeq()
			m.loading = true
			name := m.outputName
			if name == "" {
				name = m.detail.OutputFileID
			}
			return m, tea.Batch(m.spin.Tick, downloadOutput(m.client, seq, m.detail.OutputFileID, name))
		}
		m.errorMsg = "batch has no output file yet"
		return m, nil

	case "?":
		m.helpReturn = m.viewState
		m.viewState = ViewHelp
		return m, nil
	}

	return m, nil
}

func (m Model) handleFilesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		cmd := m.refreshFiles()
		return m, cmd

	case "d":
		if f := m.selectedFile(); f != nil {
			m.confirmKind = confirmDeleteFile
			m.confirmID = f.ID
			m.confirmLabel = f.Filename
			if m.confirmLabel == "" {
				m.confirmLabel = f.ID
			}
			m.viewState = ViewConfirm
		}
		return m, nil

	case "u":
		m.viewState = ViewUpload
		m.message = ""
		m.errorMsg = ""
		return m, m.picker.Init()

	case "o":
		if f := m.selectedFile(); f != nil {
			name := f.Filename
			if name == "" {
				name = f.ID
			}
			return m.openLog(f.ID, "file: "+name, ViewFiles)
		}
		return m, nil

	case "b":
		m.viewState = ViewBatches
		return m, nil

	case "p":
		m.nextSeq()
		m.client = nil
		m.profileName = ""
		m.loading = false
		m.batches = nil
		m.files = nil
		m.message = ""
		m.errorMsg = ""
		m.viewState = ViewProfiles
		return m, nil

	case "?":
		m.helpReturn = m.viewState
		m.viewState = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.fileTable, cmd = m.fileTable.Update(msg)
	return m, cmd
}

func (m Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewState = m.logReturn
		return m, nil

	case "r":
		if m.logFileID != "" {
			seq := m.nextSeq()
			m.loading = true
			return m, tea.Batch(m.spin.Tick, loadLog(m.client, seq, m.logFileID, m.logTitle))
		}
		return m, nil

	case "g":
		m.logView.GotoTop()
		return m, nil

	case "G":
		m.logView.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "y", "Y":
		seq := m.nextSeq()
		m.loading = true
		switch m.confirmKind {
		case confirmDeleteFile:
			m.viewState = ViewFiles
			return m, tea.Batch(m.spin.Tick, deleteFile(m.client, seq, m.confirmID, m.confirmLabel))
		case confirmCancelBatch:
			m.viewState = ViewBatches
			return m, tea.Batch(m.spin.Tick, cancelBatch(m.client, seq, m.confirmID))
		}
		return m, nil

	case "n", "N", "esc":
		if m.confirmKind == confirmDeleteFile {
			m.viewState = ViewFiles
		} else {
			m.viewState = ViewBatches
		}
		m.message = "cancelled"
		return m, nil
	}

	return m, nil
}

func (m Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewState = ViewFiles
		return m, nil
	}

	return m.updatePicker(msg)
}

// updatePicker forwards a message to the file picker and starts the
// upload when a file is chosen.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		seq := m.nextSeq()
		m.loading = true
		m.viewState = ViewFiles
		return m, tea.Batch(m.spin.Tick, uploadFile(m.client, seq, path))
	}

	return m, cmd
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q", "?":
		m.viewState = m.helpReturn
		return m, nil
	}
	return m, nil
}

// Result message handlers. Each drops results issued under a stale
// sequence before touching any state.

func (m Model) handleBatchesLoaded(msg BatchesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.errorMsg = ""
	if msg.Append {
		m.batches = append(m.batches, msg.Jobs...)
	} else {
		m.batches = msg.Jobs
	}
	m.nextAfter = msg.NextAfter
	m.hasMore = msg.HasMore
	m.batchTable.SetRows(batchRows(m.batches))
	m.message = fmt.Sprintf("%d batch jobs", len(m.batches))
	return m, nil
}

func (m Model) handleBatchDetail(msg BatchDetailMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		if api.IsNotFound(msg.Err) {
			// The batch vanished server-side; fall back to a fresh list.
			m.viewState = ViewBatches
			m.message = "batch no longer exists"
			cmd := m.refreshBatches()
			return m, cmd
		}
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.errorMsg = ""
	m.detail = msg.Job
	m.inputName = msg.InputName
	m.outputName = msg.OutputName
	return m, nil
}

func (m Model) handleBatchCancelled(msg BatchCancelledMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.message = fmt.Sprintf("batch %s is now %s", msg.Job.ID, msg.Job.Status)
	cmd := m.refreshBatches()
	return m, cmd
}

func (m Model) handleFilesLoaded(msg FilesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.errorMsg = ""
	m.files = msg.Files
	m.fileTable.SetRows(fileRows(m.files))
	m.message = fmt.Sprintf("%d stored files", len(m.files))
	return m, nil
}

func (m Model) handleFileDeleted(msg FileDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil && !api.IsNotFound(msg.Err) {
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	if msg.Err != nil {
		// Already gone server-side; reconcile the list anyway.
		m.message = fmt.Sprintf("file %s was already deleted", msg.Filename)
	} else {
		m.message = fmt.Sprintf("deleted %s", msg.Filename)
	}
	cmd := m.refreshFiles()
	return m, cmd
}

func (m Model) handleFileUploaded(msg FileUploadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.message = fmt.Sprintf("uploaded %s as %s", filepath.Base(msg.Path), msg.File.ID)
	cmd := m.refreshFiles()
	return m, cmd
}

func (m Model) handleLogLoaded(msg LogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.loading = false

	if msg.Err != nil {
		if api.IsNotFound(msg.Err) {
			m.viewState = m.logReturn
			m.message = "log file no longer exists"
			return m, nil
		}
		m.errorMsg = errorText(msg.Err)
		return m, nil
	}

	m.errorMsg = ""
	m.logTitle = msg.Title
	m.logFileID = msg.FileID
	m.logView.SetContent(renderLogContent(msg.Content))
	m.logView.GotoTop()
	return m, nil
}

// refreshBatches starts a fresh first-page listing.
func (m *Model) refreshBatches() tea.Cmd {
	seq := m.nextSeq()
	m.loading = true
	m.message = ""
	m.errorMsg = ""
	return tea.Batch(m.spin.Tick, listBatches(m.client, seq, "", false))
}

// refreshFiles starts a fresh file listing.
func (m *Model) refreshFiles() tea.Cmd {
	seq := m.nextSeq()
	m.loading = true
	m.message = ""
	m.errorMsg = ""
	return tea.Batch(m.spin.Tick, listFiles(m.client, seq))
}

// openLog switches to the log view and fetches the given file.
func (m Model) openLog(fileID, title string, back ViewState) (tea.Model, tea.Cmd) {
	if fileID == "" {
		m.errorMsg = "no log file available"
		return m, nil
	}
	seq := m.nextSeq()
	m.loading = true
	m.viewState = ViewLog
	m.logReturn = back
	m.logTitle = title
	m.logFileID = fileID
	m.logView.SetContent("")
	return m, tea.Batch(m.spin.Tick, loadLog(m.client, seq, fileID, title))
}

func (m *Model) nextSeq() int {
	m.seq++
	return m.seq
}

func (m *Model) selectedBatch() *api.BatchJob {
	i := m.batchTable.Cursor()
	if i < 0 || i >= len(m.batches) {
		return nil
	}
	return &m.batches[i]
}

func (m *Model) selectedFile() *api.StoredFile {
	i := m.fileTable.Cursor()
	if i < 0 || i >= len(m.files) {
		return nil
	}
	return &m.files[i]
}

// adjustScrollOffset keeps the profile cursor visible
func (m *Model) adjustScrollOffset() {
	visibleHeight := m.getVisibleListHeight()

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visibleHeight {
		m.scrollOffset = m.cursor - visibleHeight + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}

	maxOffset := len(m.profiles) - visibleHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
}

// getVisibleListHeight returns the lines available for the profile list
func (m *Model) getVisibleListHeight() int {
	headerLines := 3
	footerLines := 4

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// resizeWidgets propagates the window size to the embedded widgets
func (m *Model) resizeWidgets() {
	tableHeight := m.height - 9
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.batchTable.SetHeight(tableHeight)
	m.fileTable.SetHeight(tableHeight)

	m.logView.Width = m.width
	logHeight := m.height - 5
	if logHeight < 3 {
		logHeight = 3
	}
	m.logView.Height = logHeight

	pickerHeight := m.height - 7
	if pickerHeight < 3 {
		pickerHeight = 3
	}
	m.picker.Height = pickerHeight

	m.adjustScrollOffset()
}

// View renders the UI
func (m Model) View() string {
	switch m.viewState {
	case ViewBatches:
		return m.RenderBatchesView()
	case ViewBatchDetail:
		return m.RenderBatchDetailView()
	case ViewFiles:
		return m.RenderFilesView()
	case ViewLog:
		return m.RenderLogView()
	case ViewConfirm:
		return m.RenderConfirmView()
	case ViewUpload:
		return m.RenderUploadView()
	case ViewHelp:
		return m.RenderHelpView()
	default:
		return m.RenderProfilesView()
	}
}

// errorText turns an adapter error into a status-bar line with the
// matching recovery hint.
func errorText(err error) string {
	switch {
	case api.IsAuth(err):
		return "authentication failed: key rejected, press p to pick another profile"
	case api.IsNetwork(err):
		return fmt.Sprintf("%v, press r to retry", err)
	case api.IsNotFound(err):
		return "resource no longer exists, press r to refresh"
	}
	return err.Error()
}

// Commands. Each closure does the blocking API call so the UI loop never
// blocks, and stamps its result with the issuing sequence.

func listBatches(c Backend, seq int, after string, appendPage bool) tea.Cmd {
	return func() tea.Msg {
		jobs, next, hasMore, err := c.ListBatches(context.Background(), batchPageSize, after)
		return BatchesLoadedMsg{
			Seq:       seq,
			Jobs:      jobs,
			NextAfter: next,
			HasMore:   hasMore,
			Append:    appendPage,
			Err:       err,
		}
	}
}

func getBatchDetail(c Backend, seq int, id string) tea.Cmd {
	return func() tea.Msg {
		job, err := c.GetBatch(context.Background(), id)
		if err != nil {
			return BatchDetailMsg{Seq: seq, Err: err}
		}

		// Filename lookups are cosmetic; ignore their failures.
		var inputName, outputName string
		if job.InputFileID != "" {
			inputName, _ = c.FileName(context.Background(), job.InputFileID)
		}
		if job.OutputFileID != "" {
			outputName, _ = c.FileName(context.Background(), job.OutputFileID)
		}

		return BatchDetailMsg{
			Seq:        seq,
			Job:        job,
			InputName:  inputName,
			OutputName: outputName,
		}
	}
}

func cancelBatch(c Backend, seq int, id string) tea.Cmd {
	return func() tea.Msg {
		job, err := c.CancelBatch(context.Background(), id)
		return BatchCancelledMsg{Seq: seq, Job: job, Err: err}
	}
}

func listFiles(c Backend, seq int) tea.Cmd {
	return func() tea.Msg {
		files, err := c.ListFiles(context.Background())
		return FilesLoadedMsg{Seq: seq, Files: files, Err: err}
	}
}

func deleteFile(c Backend, seq int, id, filename string) tea.Cmd {
	return func() tea.Msg {
		err := c.DeleteFile(context.Background(), id)
		return FileDeletedMsg{Seq: seq, ID: id, Filename: filename, Err: err}
	}
}

func uploadFile(c Backend, seq int, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := c.UploadFile(context.Background(), path, "batch")
		return FileUploadedMsg{Seq: seq, File: f, Path: path, Err: err}
	}
}

func loadLog(c Backend, seq int, fileID, title string) tea.Cmd {
	return func() tea.Msg {
		data, err := c.FileContent(context.Background(), fileID)
		return LogLoadedMsg{Seq: seq, Title: title, FileID: fileID, Content: string(data), Err: err}
	}
}

// downloadOutput saves a job's output file under downloads/, normalizing
// every JSONL line on the way.
func downloadOutput(c Backend, seq int, fileID, name string) tea.Cmd {
	return func() tea.Msg {
		data, err := c.FileContent(context.Background(), fileID)
		if err != nil {
			return DownloadedMsg{Seq: seq, Err: err}
		}

		lines, err := jsonl.Normalize(data)
		if err != nil {
			return DownloadedMsg{Seq: seq, Err: fmt.Errorf("output is not valid JSONL: %w", err)}
		}

		if err := os.MkdirAll(downloadDir, 0755); err != nil {
			return DownloadedMsg{Seq: seq, Err: err}
		}

		safeName := strings.ReplaceAll(name, "/", "_")
		if !strings.HasSuffix(safeName, ".jsonl") {
			safeName += ".jsonl"
		}
		path := filepath.Join(downloadDir, safeName)

		content := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return DownloadedMsg{Seq: seq, Err: err}
		}

		return DownloadedMsg{Seq: seq, Path: path}
	}
}
