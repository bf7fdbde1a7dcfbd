package xl

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BlobHash identifies media content; equal blobs share one part.
func BlobHash(blob []byte) uuid.UUID {
	h := fnv.New128()
	h.Write(blob)
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return uid
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpeg": "image/jpeg",
}

// mediaName returns the part name of an image under /xl/media and its
// content type. Only png and jpeg images are stored.
func mediaName(pic *PictureInfo) (name, contentType string, err error) {
	if pic == nil || len(pic.Blob) == 0 {
		return "", "", errors.New("empty picture data")
	}
	ext := strings.ToLower(pic.Extension)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	ct, ok := imageContentTypes[ext]
	if !ok {
		return "", "", errors.Errorf("unsupported image extension %s", pic.Extension)
	}
	return fmt.Sprintf("%.16x%s", BlobHash(pic.Blob), ext), ct, nil
}
