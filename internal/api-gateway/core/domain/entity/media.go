package entity

import "strings"

// MediaFile is a photo or video attached to a work order.
type MediaFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MediaKind classifies stored media by extension.
type MediaKind string

const (
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaUnknown MediaKind = "unknown"
)

// MediaItem is a file already stored in a work order folder.
type MediaItem struct {
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Kind     MediaKind `json:"kind"`
}

// NewMediaItem derives the filename and kind from a stored path such as
// /media/20240115_77/IMG_0001.jpg.
func NewMediaItem(path string) MediaItem {
	name := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		name = path[i+1:]
	}
	return MediaItem{Path: path, Filename: name, Kind: KindOf(name)}
}

// KindOf classifies a filename by its extension.
func KindOf(filename string) MediaKind {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"),
		strings.HasSuffix(lower, ".png"), strings.HasSuffix(lower, ".heic"),
		strings.HasSuffix(lower, ".webp"), strings.HasSuffix(lower, ".gif"):
		return MediaImage
	case strings.HasSuffix(lower, ".mp4"), strings.HasSuffix(lower, ".mov"):
		return MediaVideo
	}
	return MediaUnknown
}

// ContentTypeFor guesses the upload content type of a media file.
func ContentTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	ext := lower[strings.LastIndex(lower, ".")+1:]
	switch KindOf(filename) {
	case MediaImage:
		if ext == "jpg" || ext == "jpeg" {
			return "image/jpeg"
		}
		return "image/" + ext
	case MediaVideo:
		if ext == "mov" {
			return "video/quicktime"
		}
		return "video/" + ext
	}
	return "application/octet-stream"
}
