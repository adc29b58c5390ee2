package mediastore

import (
	"context"
	"io"
)

// ProgressFunc receives byte-level upload progress. It may be called zero or
// more times before Upload returns.
type ProgressFunc func(loaded, total int64, percent int)

// UploadResult is the durable outcome of a successful upload.
type UploadResult struct {
	// URL is the absolute, publicly reachable address of the hosted image.
	URL string
	// Reference is the host's opaque handle for the object, kept for later
	// deletion or lookups.
	Reference string
}

// Uploader is the contract the ingestion pipeline consumes. Implementations
// must resolve only on a success status from the remote host and report any
// transport error or non-success status as a plain error.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, onProgress ProgressFunc) (UploadResult, error)
}

// progressReader counts bytes flowing through an io.Reader and reports them
// to a ProgressFunc.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	onProgress ProgressFunc
}

// NewProgressReader wraps r so drivers can derive progress from the bytes
// they hand to their HTTP transport.
func NewProgressReader(r io.Reader, total int64, onProgress ProgressFunc) io.Reader {
	if onProgress == nil {
		return r
	}
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		percent := 0
		if p.total > 0 {
			percent = int(p.loaded * 100 / p.total)
			if percent > 100 {
				percent = 100
			}
		}
		p.onProgress(p.loaded, p.total, percent)
	}
	return n, err
}
