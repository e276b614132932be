package constants

import (
	"path/filepath"
	"strings"
)

// DetectFileTypeFromExt menebak tipe materi dari ekstensi file.
func DetectFileTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp3", ".wav":
		return "AUDIO"
	case ".doc", ".docx":
		return "DOCX"
	case ".pdf":
		return "PDF"
	case ".ppt", ".pptx":
		return "PPT"
	case ".png", ".jpg", ".jpeg", ".webp":
		return "IMAGE"
	default:
		return "OTHER"
	}
}
