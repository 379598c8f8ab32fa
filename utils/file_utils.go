package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Thumbnail edge length
	thumbnailSize = 300
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var filenameReg = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	filename = filepath.Base(filename)
	return filenameReg.ReplaceAllString(filename, "")
}

// ValidateImageFile checks if the file extension is an allowed image format
func ValidateImageFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
	}
	return nil
}

// UploadImage saves image data under uploads/<subDir> and returns the URL
func UploadImage(fileData []byte, filename string, subDir string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateImageFile(cleanName); err != nil {
		return "", err
	}

	dir := filepath.Join(uploadBaseDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	fullPath := filepath.Join(dir, cleanName)
	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, subDir, cleanName), nil
}

// GenerateThumbnail resizes an uploaded image to a square thumbnail, saves
// it next to the original under uploads/thumbnails and returns its URL.
func GenerateThumbnail(fileData []byte, filename string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	cleanName := cleanFilename(filename)
	base := strings.TrimSuffix(cleanName, filepath.Ext(cleanName))
	thumbName := base + "_thumb.jpg"

	dir := filepath.Join(uploadBaseDir, "thumbnails")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, thumbName), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %v", err)
	}

	return fmt.Sprintf("%s/thumbnails/%s", baseURL, thumbName), nil
}
