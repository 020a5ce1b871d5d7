package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ms-eventhub/internal/config"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrFileTooLarge    = errors.New("file too large")
)

// MaxUploadSize caps a single upload at 5 MiB.
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".svg":  true,
}

// Upload is the stored result handed back to the client; URL is what other
// resources (event banners, category icons) reference.
type Upload struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// MediaService stores uploads on local disk under a uuid name so user-chosen
// filenames never touch the filesystem.
type MediaService struct {
	Dir     string
	BaseURL string
}

func NewMediaService(cfg config.MediaConfig) (*MediaService, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &MediaService{Dir: cfg.UploadDir, BaseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

func (s *MediaService) Store(file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	if header.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(file, MaxUploadSize))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &Upload{
		FileName: name,
		URL:      s.BaseURL + "/" + name,
		Size:     size,
	}, nil
}

// StoreMany persists each part of a multi-file upload in order. The first
// failure aborts the batch; files already written stay on disk.
func (s *MediaService) StoreMany(headers []*multipart.FileHeader) ([]*Upload, error) {
	uploads := make([]*Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", header.Filename, err)
		}
		upload, err := s.Store(file, header)
		file.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

// Remove deletes a stored file by name. The name is restricted to its base
// component so a crafted value cannot reach outside the upload dir.
func (s *MediaService) Remove(fileName string) error {
	name := filepath.Base(fileName)
	if name == "." || name == "/" || name == "" {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(s.Dir, name))
}
