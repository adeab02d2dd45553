package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File is one staged document for upload, read from disk at PUT time.
type File struct {
	Name string // original filename, shown to the user and sent to parse
	Path string // local path the bytes are read from
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// UploadAndParse runs the full pipeline: one presign call for the batch,
// concurrent PUTs to the presigned targets, then a single parse call for
// the whole batch. Parse is only ever reached when every PUT succeeded;
// any per-file failure aborts before parse so no partial batch is parsed.
// Returns the number of files handed to the parser.
func (c *Client) UploadAndParse(ctx context.Context, token string, files []File) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	slots, err := c.PresignedUploadSlots(ctx, token, names)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, len(slots))
	for i, slot := range slots {
		// Slots come back in request order; pair positionally so staged
		// files sharing a base name each keep their own slot.
		f := files[i]
		if slot.OriginalFilename != f.Name {
			return 0, fmt.Errorf("presigned_url: slot %d is for %q, expected %q", i, slot.OriginalFilename, f.Name)
		}
		wg.Add(1)
		go func(i int, slot PresignedSlot, f File) {
			defer wg.Done()
			if err := c.putFile(ctx, slot.URL, f); err != nil {
				errs[i] = fmt.Errorf("%s: %w", f.Name, err)
				cancel()
			}
		}(i, slot, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return 0, fmt.Errorf("upload: %w", err)
		}
	}

	uploaded := make([]UploadedFile, len(slots))
	for i, slot := range slots {
		uploaded[i] = UploadedFile{FileName: slot.FileName, OriginalName: slot.OriginalFilename}
	}
	if _, err := c.ParseUploaded(ctx, uploaded); err != nil {
		return 0, err
	}
	c.log.Info().Int("files", len(uploaded)).Msg("upload batch parsed")
	return len(uploaded), nil
}

func (c *Client) putFile(ctx context.Context, url string, f File) error {
	fh, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return c.PutFileBytes(ctx, url, contentTypeFor(f.Name), fh)
}
