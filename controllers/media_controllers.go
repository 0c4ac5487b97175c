package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeremiapane/dineorder/config"
	"github.com/yeremiapane/dineorder/utils"
)

type MediaController struct {
	Cfg *config.Config
}

func NewMediaController(cfg *config.Config) *MediaController {
	return &MediaController{Cfg: cfg}
}

const maxUploadSize = 10 << 20 // 10 MB

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Upload stores an image under a random filename and returns its public
// URL. The client filename is only consulted for the extension.
func (mc *MediaController) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, utils.NewEntityError("file", "file is required"))
		return
	}
	if file.Size > maxUploadSize {
		utils.RespondWithError(c, utils.NewEntityError("file", "file exceeds the 10MB limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		utils.RespondWithError(c, utils.NewEntityError("file", "only png, jpg, jpeg, gif and webp images are allowed"))
		return
	}

	if err := os.MkdirAll(mc.Cfg.UploadDir, 0o755); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	filename := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	dest := filepath.Join(mc.Cfg.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.InfoLogger.Printf("image uploaded: %s (%d bytes)", filename, file.Size)
	utils.RespondJSON(c, http.StatusCreated, "File uploaded", gin.H{
		"url": utils.FormatImageURL(mc.Cfg.BaseURL, filename),
	})
}
