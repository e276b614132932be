// file: internals/helpers/oss/oss_image.go
package oss

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/raffayuda/lesson-app/internals/configs"
)

// WebPOptions mengatur re-encode gambar sebelum upload (hemat storage &
// bandwidth; bukti transfer dari HP sering 3-5MB).
type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
	}
}

// DecodeBase64Payload menerima payload "data:<mime>;base64,..." atau base64
// polos, mengembalikan bytes + mime yang terdeteksi.
func DecodeBase64Payload(payload string) ([]byte, string, error) {
	mime := ""
	if strings.HasPrefix(payload, "data:") {
		semi := strings.Index(payload, ";base64,")
		if semi < 0 {
			return nil, "", fmt.Errorf("data URL tanpa base64 marker")
		}
		mime = payload[len("data:"):semi]
		payload = payload[semi+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64 tidak valid: %w", err)
	}
	return raw, mime, nil
}

// EncodeWebP men-decode gambar (jpeg/png/webp), resize keep-aspect bila
// melebihi MaxW/MaxH, lalu encode lossy WebP.
func EncodeWebP(data []byte, opt WebPOptions) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// mungkin sudah webp
		if img, err = webp.Decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("decode gambar gagal: %w", err)
		}
	}

	bounds := img.Bounds()
	if bounds.Dx() > opt.MaxW || bounds.Dy() > opt.MaxH {
		img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: opt.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp gagal: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadImageBase64 = decode base64 → re-encode webp → upload. Dipakai bukti
// pembayaran. Non-gambar ditolak.
func (s *Service) UploadImageBase64(folder, filename, payload string) (string, error) {
	raw, _, err := DecodeBase64Payload(payload)
	if err != nil {
		return "", err
	}
	encoded, err := EncodeWebP(raw, DefaultWebPOptions())
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filename, extOf(filename)) + ".webp"
	return s.UploadBytes(folder, name, "image/webp", encoded)
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
