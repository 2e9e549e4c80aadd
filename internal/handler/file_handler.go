package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"dmchat/internal/app/storage"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/randx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

// upload purposes, used as key prefixes so message images and profile photos
// stay separable in the bucket.
const (
	UploadPurposeMessage = "message"
	UploadPurposeProfile = "profile"
)

// PresignUploadInput defines the JSON input structure for generating an upload URL.
type PresignUploadInput struct {
	Purpose  string `json:"purpose"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignUpload generates a time-limited, pre-signed URL for uploading
// an image, scoped under the caller's id.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Files == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Purpose != UploadPurposeMessage && input.Purpose != UploadPurposeProfile {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := storage.ValidateFileSize(input.FileSize); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := storage.ValidateFileType(input.FileName, input.MimeType); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		fileExt := strings.ToLower(filepath.Ext(input.FileName))
		fileKey := fmt.Sprintf("%s/%s/%s%s", input.Purpose, identity.ID, randx.NewID(), fileExt)

		url, err := deps.Files.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
			"fileName":     input.FileName,
		})
	}
}

// HandlePresignDownload generates a time-limited, pre-signed URL for fetching
// a previously uploaded image by key.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Files == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		fileKey := r.URL.Query().Get("key")
		if fileKey == "" || strings.Contains(fileKey, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.Files.PresignDownload(r.Context(), fileKey, storage.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
		})
	}
}
