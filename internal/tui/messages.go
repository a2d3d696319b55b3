package tui

import "batchman/internal/api"

// Every async result message carries the request sequence it was issued
// under. Results from a stale sequence (the user switched profile or
// navigated away and refetched) are dropped instead of being applied to
// the current screen.

// BatchesLoadedMsg is sent when a batch listing completes.
type BatchesLoadedMsg struct {
	Seq       int
	Jobs      []api.BatchJob
	NextAfter string
	HasMore   bool
	Append    bool // true for a load-more page
	Err       error
}

// BatchDetailMsg is sent when a single batch fetch completes.
type BatchDetailMsg struct {
	Seq        int
	Job        *api.BatchJob
	InputName  string
	OutputName string
	Err        error
}

// BatchCancelledMsg is sent when a cancel request completes.
type BatchCancelledMsg struct {
	Seq int
	Job *api.BatchJob
	Err error
}

// FilesLoadedMsg is sent when a file listing completes.
type FilesLoadedMsg struct {
	Seq   int
	Files []api.StoredFile
	Err   error
}

// FileDeletedMsg is sent when a file deletion completes.
type FileDeletedMsg struct {
	Seq      int
	ID       string
	Filename string
	Err      error
}

// FileUploadedMsg is sent when an upload completes.
type FileUploadedMsg struct {
	Seq  int
	File *api.StoredFile
	Path string
	Err  error
}

// LogLoadedMsg is sent when a job log download completes.
type LogLoadedMsg struct {
	Seq     int
	Title   string
	FileID  string
	Content string
	Err     error
}

// DownloadedMsg is sent when an output file has been saved locally.
type DownloadedMsg struct {
	Seq  int
	Path string
	Err  error
}
