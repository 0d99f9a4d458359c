package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paragraph/internal/models"

	"github.com/gofiber/fiber/v2"
)

// uploadKind maps the multipart field name to a destination subdirectory and
// its allowed extensions.
type uploadKind struct {
	field string
	dir   string
	exts  map[string]bool
}

var uploadKinds = []uploadKind{
	{
		field: "coverImage",
		dir:   "covers",
		exts:  map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true},
	},
	{
		field: "avatar",
		dir:   "avatars",
		exts:  map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	},
	{
		field: "podcast",
		dir:   "podcasts",
		exts:  map[string]bool{".mp3": true, ".m4a": true, ".ogg": true, ".wav": true},
	},
}

// Upload handles POST /v1/upload. The multipart field name picks the
// destination; files land under a content-hash plus timestamp name so repeat
// uploads never collide or overwrite.
func (s *Server) Upload(c *fiber.Ctx) error {
	var file *multipart.FileHeader
	var kind uploadKind
	for _, k := range uploadKinds {
		if fh, err := c.FormFile(k.field); err == nil && fh != nil {
			file = fh
			kind = k
			break
		}
	}
	if file == nil {
		return badRequest(c, models.MsgUploadFieldRequired)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !kind.exts[ext] {
		return badRequest(c, models.MsgUploadBadType)
	}

	src, err := file.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer src.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, src); err != nil {
		return internalError(c, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return internalError(c, err)
	}

	name := fmt.Sprintf("%s-%d%s",
		hex.EncodeToString(hasher.Sum(nil))[:16],
		time.Now().UnixNano(),
		ext,
	)

	destDir := filepath.Join(s.config.UploadDir, kind.dir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return internalError(c, err)
	}

	dest, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return internalError(c, err)
	}
	defer dest.Close()
	if _, err := io.Copy(dest, src); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgUploadDone,
		"url":     "/uploads/" + kind.dir + "/" + name,
		"field":   kind.field,
		"size":    file.Size,
	})
}
