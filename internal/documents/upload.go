package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sensei/internal/api"
)

// maxParallelUploads bounds concurrent uploads.
const maxParallelUploads = 4

// UploadFailure is a file that could not be uploaded.
type UploadFailure struct {
	Path string
	Err  error
}

func (f UploadFailure) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err)
}

func (f UploadFailure) Unwrap() error { return f.Err }

// UploadAll uploads paths concurrently and returns the document ids of the
// uploads that succeeded, in input order. A failed file does not stop the
// others; it is reported in failures.
func UploadAll(ctx context.Context, backend api.Backend, skillID, userID string, paths []string) (ids []string, failures []UploadFailure) {
	results := make([]string, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(maxParallelUploads)

	for i, path := range paths {
		g.Go(func() error {
			results[i], errs[i] = uploadOne(ctx, backend, skillID, userID, path)
			return nil
		})
	}
	_ = g.Wait()

	for i, path := range paths {
		if errs[i] != nil {
			failures = append(failures, UploadFailure{Path: path, Err: errs[i]})
			continue
		}
		if results[i] != "" {
			ids = append(ids, results[i])
		}
	}
	return ids, failures
}

func uploadOne(ctx context.Context, backend api.Backend, skillID, userID, path string) (string, error) {
	if _, err := Preflight(path); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	res, err := backend.UploadDocument(ctx, api.UploadRequest{
		SkillID:  skillID,
		UserID:   userID,
		Filename: filepath.Base(path),
		Content:  f,
	})
	if err != nil {
		return "", err
	}
	return res.DocumentID, nil
}
