package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// LayoutSource serves every layout document stored under a bucket prefix.
// It satisfies layout.Source.
type LayoutSource struct {
	store  StorageService
	bucket string
	prefix string
}

// NewLayoutSource creates a layout source over store.
func NewLayoutSource(store StorageService, bucket, prefix string) *LayoutSource {
	return &LayoutSource{store: store, bucket: bucket, prefix: prefix}
}

// Name identifies the source in errors and logs.
func (s *LayoutSource) Name() string {
	return "minio:" + s.bucket + "/" + s.prefix
}

// Documents downloads every layout object in key order, so later keys
// override earlier ones when merged.
func (s *LayoutSource) Documents(ctx context.Context) ([][]byte, error) {
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", s.bucket)
	}

	objects, err := s.store.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })

	docs := make([][]byte, 0, len(objects))
	for _, obj := range objects {
		if !IsLayoutKey(obj.Key) {
			continue
		}
		if err := ValidateFileSize(obj.Size); err != nil {
			return nil, fmt.Errorf("%s: %w", obj.Key, err)
		}
		data, err := s.download(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, data)
	}
	return docs, nil
}

func (s *LayoutSource) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.store.DownloadFile(ctx, s.bucket, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxLayoutObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if int64(len(data)) > MaxLayoutObjectSize {
		return nil, fmt.Errorf("%s: object exceeds %d bytes", key, MaxLayoutObjectSize)
	}
	return data, nil
}
