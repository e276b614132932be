// file: internals/helpers/oss/oss_client.go
package oss

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Service membungkus bucket OSS untuk upload bukti pembayaran & materi.
// Di-construct sekali saat start (lihat main.go), tidak ada singleton ambient.
type Service struct {
	bucket     *oss.Bucket
	bucketName string
	endpoint   string
	publicBase string

	mu sync.Mutex
}

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

// NewFromEnv membuat Service dari env OSS_*. Mengembalikan nil (bukan error)
// bila kredensial belum diset, supaya app tetap bisa jalan tanpa storage
// (upload akan gagal dengan pesan jelas).
func NewFromEnv() (*Service, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")

	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, nil
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	publicBase := getEnv("OSS_PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.%s", bucketName, endpoint)
	}

	return &Service{
		bucket:     bucket,
		bucketName: bucketName,
		endpoint:   endpoint,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// UploadBytes menyimpan payload ke folder/nama-unik dan mengembalikan URL publik.
func (s *Service) UploadBytes(folder, filename, contentType string, data []byte) (string, error) {
	if s == nil || s.bucket == nil {
		return "", fmt.Errorf("object storage belum dikonfigurasi (OSS_* env kosong)")
	}

	key := uniqueObjectKey(folder, filename)
	opts := []oss.Option{}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}

	return s.publicBase + "/" + encodePath(key), nil
}

// DeleteByURL menghapus object berdasarkan URL publik hasil UploadBytes.
// Best-effort: URL di luar bucket kita diabaikan.
func (s *Service) DeleteByURL(fileURL string) error {
	if s == nil || s.bucket == nil || fileURL == "" {
		return nil
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return err
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil
	}
	return s.bucket.DeleteObject(key)
}

// uniqueObjectKey: folder/YYYYMMDD-uuid-nama_aman
func uniqueObjectKey(folder, filename string) string {
	return fmt.Sprintf("%s/%s-%s-%s",
		strings.Trim(folder, "/"),
		time.Now().Format("20060102"),
		uuid.New().String(),
		sanitizeFilename(filename),
	)
}

func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func encodePath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
