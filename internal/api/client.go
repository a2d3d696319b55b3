// Package api adapts the vendor batch and file endpoints to the local
// display types used by the TUI and CLI.
package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

// BatchJob mirrors a vendor batch resource. Lifecycle is owned by the
// vendor; this struct is read-only display state.
type BatchJob struct {
	ID            string
	Status        string // vendor enumerated: validating, in_progress, ...
	Endpoint      string
	CreatedAt     time.Time
	CompletedAt   time.Time
	InputFileID   string
	OutputFileID  string
	ErrorFileID   string
	RequestsTotal int64
	RequestsDone  int64
	RequestsFail  int64
	FirstError    string
}

// StoredFile mirrors a vendor uploaded-file resource.
type StoredFile struct {
	ID        string
	Filename  string
	Purpose   string
	Bytes     int64
	CreatedAt time.Time
}

// Client wraps the vendor SDK for one API key.
type Client struct {
	oa openai.Client
}

// NewClient builds a client for the given key. Retries are disabled;
// retry is a user action in this tool.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	all := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &Client{oa: openai.NewClient(all...)}
}

// ListBatches fetches one page of batch jobs. A non-empty after cursor
// continues a previous listing; the returned cursor feeds the next page.
func (c *Client) ListBatches(ctx context.Context, limit int64, after string) ([]BatchJob, string, bool, error) {
	params := openai.BatchListParams{Limit: openai.Int(limit)}
	if after != "" {
		params.After = openai.String(after)
	}

	page, err := c.oa.Batches.List(ctx, params)
	if err != nil {
		log.Debug().Err(err).Msg("list batches failed")
		return nil, "", false, Classify(err)
	}

	jobs := make([]BatchJob, 0, len(page.Data))
	for _, b := range page.Data {
		jobs = append(jobs, toBatchJob(&b))
	}

	next := ""
	if page.HasMore && len(jobs) > 0 {
		next = jobs[len(jobs)-1].ID
	}
	log.Debug().Int("count", len(jobs)).Bool("has_more", page.HasMore).Msg("listed batches")
	return jobs, next, page.HasMore, nil
}

// GetBatch fetches a single batch job.
func (c *Client) GetBatch(ctx context.Context, id string) (*BatchJob, error) {
	b, err := c.oa.Batches.Get(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("batch", id).Msg("get batch failed")
		return nil, Classify(err)
	}
	job := toBatchJob(b)
	return &job, nil
}

// CancelBatch requests cancellation of an in-progress batch and returns
// its updated state.
func (c *Client) CancelBatch(ctx context.Context, id string) (*BatchJob, error) {
	b, err := c.oa.Batches.Cancel(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("batch", id).Msg("cancel batch failed")
		return nil, Classify(err)
	}
	job := toBatchJob(b)
	return &job, nil
}

// ListFiles fetches the uploaded files for the account.
func (c *Client) ListFiles(ctx context.Context) ([]StoredFile, error) {
	page, err := c.oa.Files.List(ctx, openai.FileListParams{})
	if err != nil {
		log.Debug().Err(err).Msg("list files failed")
		return nil, Classify(err)
	}

	files := make([]StoredFile, 0, len(page.Data))
	for _, f := range page.Data {
		files = append(files, toStoredFile(&f))
	}
	log.Debug().Int("count", len(files)).Msg("listed files")
	return files, nil
}

// UploadFile uploads a local file with the given purpose and returns the
// created resource.
func (c *Client) UploadFile(ctx context.Context, path string, purpose string) (*StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	created, err := c.oa.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(f, filepath.Base(path), "application/jsonl"),
		Purpose: openai.FilePurpose(purpose),
	})
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("upload failed")
		return nil, Classify(err)
	}

	sf := toStoredFile(created)
	log.Debug().Str("file", sf.ID).Msg("uploaded file")
	return &sf, nil
}

// DeleteFile deletes an uploaded file by id.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	resp, err := c.oa.Files.Delete(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("file", id).Msg("delete failed")
		return Classify(err)
	}
	if !resp.Deleted {
		return fmt.Errorf("server refused to delete file %s", id)
	}
	log.Debug().Str("file", id).Msg("deleted file")
	return nil
}

// FileName resolves a file id to its stored filename.
func (c *Client) FileName(ctx context.Context, id string) (string, error) {
	f, err := c.oa.Files.Get(ctx, id)
	if err != nil {
		return "", Classify(err)
	}
	return f.Filename, nil
}

// FileContent downloads the raw content of a stored file. Used for job
// output and error logs.
func (c *Client) FileContent(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.oa.Files.Content(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("file", id).Msg("content fetch failed")
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return data, nil
}

func toBatchJob(b *openai.Batch) BatchJob {
	job := BatchJob{
		ID:            b.ID,
		Status:        string(b.Status),
		Endpoint:      string(b.Endpoint),
		CreatedAt:     unixTime(b.CreatedAt),
		CompletedAt:   unixTime(b.CompletedAt),
		InputFileID:   b.InputFileID,
		OutputFileID:  b.OutputFileID,
		ErrorFileID:   b.ErrorFileID,
		RequestsTotal: b.RequestCounts.Total,
		RequestsDone:  b.RequestCounts.Completed,
		RequestsFail:  b.RequestCounts.Failed,
	}
	if len(b.Errors.Data) > 0 {
		job.FirstError = b.Errors.Data[0].Message
	}
	return job
}

func toStoredFile(f *openai.FileObject) StoredFile {
	return StoredFile{
		ID:        f.ID,
		Filename:  f.Filename,
		Purpose:   string(f.Purpose),
		Bytes:     f.Bytes,
		CreatedAt: unixTime(f.CreatedAt),
	}
}

func unixTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
