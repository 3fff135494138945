package model

import (
	"fmt"
	"time"
)

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the accepted file kinds.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// ThumbnailWidths are the derivative widths generated for every image.
var ThumbnailWidths = []int{500, 250, 100}

type File struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"` // Owner, immutable
	Name      string    `db:"name" json:"name"`
	Type      FileType  `db:"type" json:"type"`
	IsPublic  bool      `db:"is_public" json:"isPublic"`
	ParentID  ParentRef `db:"parent_id" json:"parentId"`
	LocalPath *string   `db:"local_path" json:"-"` // Blob key, nil for folders
	CreatedAt time.Time `db:"created_at" json:"-"`
}

func (f *File) IsFolder() bool {
	return f.Type == FileTypeFolder
}

func (f *File) HasContent() bool {
	return f.LocalPath != nil && *f.LocalPath != ""
}

// IsThumbnailWidth reports whether width has a derivative.
func IsThumbnailWidth(width int) bool {
	for _, w := range ThumbnailWidths {
		if w == width {
			return true
		}
	}
	return false
}

// DerivativePath is the storage key of the resized copy of the blob at localPath.
// The worker writes here and the file service reads here; no database row links them.
func DerivativePath(localPath string, width int) string {
	return fmt.Sprintf("%s_%d", localPath, width)
}
