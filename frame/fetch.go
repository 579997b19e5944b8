// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package frame

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Open returns a reader for a frame file. Paths of the form
// gs://bucket/object are fetched from Google Cloud Storage; anything else
// is opened from the local filesystem. credentials may be a service
// account JSON blob, or nil to use ambient credentials.
func Open(ctx context.Context, path string, credentials []byte) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, "gs://") {
		return os.Open(path)
	}

	bucket, object, err := splitGcsPath(path)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if len(credentials) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentials))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	objectReader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gcsReader{ReadCloser: objectReader, client: client}, nil
}

// Load opens, reads, and validates a frame in one step.
func Load(ctx context.Context, path string, credentials []byte) (*Frame, error) {
	r, err := Open(ctx, path, credentials)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}

func splitGcsPath(path string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(path, "gs://")
	slash := strings.Index(trimmed, "/")
	if slash <= 0 || slash == len(trimmed)-1 {
		return "", "", fmt.Errorf("malformed gs path %q", path)
	}
	return trimmed[:slash], trimmed[slash+1:], nil
}

type gcsReader struct {
	io.ReadCloser
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
