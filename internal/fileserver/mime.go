package fileserver

import (
	"mime"
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// Compression suffixes, checked before the type extension so that
// "site.tar.gz" is typed by ".tar".
var encodings = map[string]string{
	".gz":  "gzip",
	".bz2": "bzip2",
	".xz":  "xz",
	".br":  "br",
	".Z":   "compress",
}

// ContentType guesses the Content-type for path from its extension. Media
// type parameters from the system table are dropped; an inferred encoding
// is appended as a charset parameter.
func ContentType(path string) string {
	base := filepath.Base(path)

	ext := filepath.Ext(base)
	encoding, compressed := encodings[ext]
	if !compressed {
		encoding, compressed = encodings[strings.ToLower(ext)]
	}
	if compressed {
		base = strings.TrimSuffix(base, ext)
		ext = filepath.Ext(base)
	}

	contentType := mediaType(ext)
	if compressed {
		contentType += "; charset=" + encoding
	}
	return contentType
}

func mediaType(ext string) string {
	if ext == "" {
		return defaultContentType
	}
	full := mime.TypeByExtension(ext)
	if full == "" {
		return defaultContentType
	}
	mt, _, err := mime.ParseMediaType(full)
	if err != nil {
		return defaultContentType
	}
	return mt
}
