package storage

import (
	"testing"

	"dmchat/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	if err := ValidateFileSize(1024); err != nil {
		t.Errorf("1KB rejected: %v", err)
	}
	if err := ValidateFileSize(MaxUploadSize); err != nil {
		t.Errorf("exact limit rejected: %v", err)
	}

	if err := ValidateFileSize(0); err == nil || err.Code != errs.ErrInvalidParams {
		t.Errorf("zero size: got %v, want ErrInvalidParams", err)
	}
	if err := ValidateFileSize(-1); err == nil {
		t.Errorf("negative size accepted")
	}
	if err := ValidateFileSize(MaxUploadSize + 1); err == nil || err.Code != errs.ErrFileSizeTooLarge {
		t.Errorf("oversize: got %v, want ErrFileSizeTooLarge", err)
	}
}

func TestValidateFileType(t *testing.T) {
	valid := map[string]string{
		"photo.jpg":  "image/jpeg",
		"photo.JPEG": "IMAGE/JPEG",
		"icon.png":   "image/png",
		"anim.gif":   "image/gif",
		"pic.webp":   "image/webp",
	}
	for name, mime := range valid {
		if err := ValidateFileType(name, mime); err != nil {
			t.Errorf("ValidateFileType(%q, %q) rejected: %v", name, mime, err)
		}
	}

	invalid := map[string]string{
		"script.exe": "application/octet-stream",
		"noext":      "image/png",
		"fake.png":   "image/jpeg",
		"doc.pdf":    "application/pdf",
		"page.svg":   "image/svg+xml",
	}
	for name, mime := range invalid {
		if err := ValidateFileType(name, mime); err == nil {
			t.Errorf("ValidateFileType(%q, %q) accepted", name, mime)
		}
	}
}
