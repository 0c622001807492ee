package attachment

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"doc":  true,
	"docx": true,
}

var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	cleanExtension      = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
)

// IsAllowed checks the extension of name, case-insensitively.
func IsAllowed(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return ext != "" && allowedExtensions[strings.ToLower(ext)]
}

// IsImage reports whether name carries an image extension.
func IsImage(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return imageExtensions[strings.ToLower(ext)]
}

// SecureFilename reduces name to a safe single path segment made of ASCII
// letters, digits, '_', '.' and '-'. The extension survives even when
// nothing of the stem does.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")

	ext := filepath.Ext(name)
	if !cleanExtension.MatchString(ext) {
		ext = ""
	}
	stem := strings.Trim(strings.TrimSuffix(name, ext), "._")
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}

// StoredName prefixes the sanitized name with a fresh uuid so that two
// uploads of the same file never collide.
func StoredName(name string) string {
	return uuid.NewString() + "_" + SecureFilename(name)
}
