package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/storage"
	"github.com/oklog/ulid/v2"
	"golang.org/x/image/draw"
)

const avatarMaxDimension = 512

var (
	imageExts    = []string{".jpg", ".jpeg", ".png"}
	documentExts = []string{".jpg", ".jpeg", ".png", ".svg", ".webp", ".pdf"}
	keyRegex     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)
)

// UploadResult is where a stored file can be found
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type FileService interface {
	// Upload stores a file under <key>/<ulid><ext>
	Upload(ctx context.Context, key string, file io.Reader, filename string, size int64) (UploadResult, error)

	// UploadAvatar stores a downscaled JPEG avatar for an account
	UploadAvatar(ctx context.Context, accountID string, file io.Reader, filename string, size int64) (UploadResult, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	maxSize int64
}

func NewFileService(storage storage.FileStorage, maxSize int64) FileService {
	return &fileServiceImpl{
		storage: storage,
		maxSize: maxSize,
	}
}

// Upload implements FileService
func (s *fileServiceImpl) Upload(ctx context.Context, key string, file io.Reader, filename string, size int64) (UploadResult, error) {
	if !keyRegex.MatchString(key) {
		return UploadResult{}, apperror.Wrap(apperror.ErrFileNotUploaded, "invalid upload key")
	}
	ext, err := s.checkFile(filename, size, documentExts)
	if err != nil {
		return UploadResult{}, err
	}

	return s.store(ctx, path.Join(key, newFilename(ext)), file, contentTypeFor(ext))
}

// UploadAvatar implements FileService
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, accountID string, file io.Reader, filename string, size int64) (UploadResult, error) {
	if _, err := s.checkFile(filename, size, imageExts); err != nil {
		return UploadResult{}, err
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to read image: %w", err)
	}

	resized, err := downscaleImage(buffer, avatarMaxDimension)
	if err != nil {
		return UploadResult{}, apperror.Wrap(apperror.ErrFileNotUploaded, "file is not a valid image")
	}

	return s.store(ctx, path.Join("avatars", accountID, newFilename(".jpg")), bytes.NewReader(resized), "image/jpeg")
}

func (s *fileServiceImpl) store(ctx context.Context, target string, file io.Reader, contentType string) (UploadResult, error) {
	uploadedPath, err := s.storage.Upload(ctx, file, target, contentType)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload file: %w", err)
	}

	url, err := s.storage.GetURL(ctx, uploadedPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to build file url: %w", err)
	}

	return UploadResult{Path: uploadedPath, URL: url}, nil
}

func (s *fileServiceImpl) checkFile(filename string, size int64, allowed []string) (string, error) {
	if filename == "" || size <= 0 {
		return "", apperror.ErrFileNotUploaded
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", apperror.Wrap(apperror.ErrFileNotUploaded, fmt.Sprintf("file exceeds %d bytes", s.maxSize))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", apperror.Wrap(apperror.ErrFileNotUploaded, "file type not allowed: "+strings.Join(allowed, ", "))
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL returns the public URL of a file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path)
}

// ==================== HELPER FUNCTIONS ====================

func newFilename(ext string) string {
	return strings.ToLower(ulid.Make().String()) + ext
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

// downscaleImage re-encodes an image as JPEG, shrinking it so neither side exceeds maxDim
func downscaleImage(buffer []byte, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxDim || height > maxDim {
		if width >= height {
			height = max(1, height*maxDim/width)
			width = maxDim
		} else {
			width = max(1, width*maxDim/height)
			height = maxDim
		}
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
