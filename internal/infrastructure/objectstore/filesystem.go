package objectstore

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shoppulse/pipeline/domain"
)

type filesystemStore struct {
	root string
}

// NewFilesystemStore returns a Store rooted at dir. Keys map to file paths
// under the root; a sidecar .meta file carries the content type.
func NewFilesystemStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &filesystemStore{root: dir}, nil
}

type objectMeta struct {
	ContentType string `json:"content_type"`
}

func (s *filesystemStore) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", domain.ErrInvalidPayload
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *filesystemStore) Put(ctx context.Context, key string, contentType string, body []byte) (*ObjectInfo, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, err
	}

	meta, err := json.Marshal(objectMeta{ContentType: contentType})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path+".meta", meta, 0o644); err != nil {
		return nil, err
	}

	return &ObjectInfo{
		Key:         strings.TrimPrefix(key, "/"),
		Size:        int64(len(body)),
		ContentType: contentType,
	}, nil
}

func (s *filesystemStore) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrReportNotFound
		}
		return nil, nil, err
	}

	info := &ObjectInfo{
		Key:         strings.TrimPrefix(key, "/"),
		Size:        stat.Size(),
		ContentType: "application/octet-stream",
	}
	if raw, err := os.ReadFile(path + ".meta"); err == nil {
		var meta objectMeta
		if json.Unmarshal(raw, &meta) == nil && meta.ContentType != "" {
			info.ContentType = meta.ContentType
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

func (s *filesystemStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		stat, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, ObjectInfo{Key: key, Size: stat.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}
