package bot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	avatarCache    sync.Map
	fallbackImage  []byte
	fallbackLoaded bool
	fallbackMutex  sync.Mutex
	httpClient     = &http.Client{Timeout: 10 * time.Second}
	validMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
)

func InitAvatarCache() error {
	fallbackMutex.Lock()
	defer fallbackMutex.Unlock()

	if fallbackLoaded {
		return nil
	}

	file, err := os.Open("./static/no-avatar.png")
	if err != nil {
		return fmt.Errorf("failed to open fallback image: %w", err)
	}
	defer file.Close()

	fallbackImage, err = io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read fallback image: %w", err)
	}

	fallbackLoaded = true
	return nil
}

// GetSafeAvatar returns the avatar bytes for url, or the bundled fallback
// image when the download fails or the URL is empty. Failed URLs are cached
// too so they are not re-fetched on every card.
func GetSafeAvatar(url string) tgbotapi.RequestFileData {
	if url == "" {
		return getFallbackImageReader()
	}

	if cached, ok := avatarCache.Load(url); ok {
		switch v := cached.(type) {
		case []byte:
			return tgbotapi.FileBytes{
				Name:  "avatar.jpg",
				Bytes: v,
			}
		case error:
			return getFallbackImageReader()
		}
	}

	imgData, contentType, err := downloadAndValidateAvatar(url)
	if err != nil {
		slog.Warn("Failed to download avatar", "url", url, "error", err)
		avatarCache.Store(url, err)
		return getFallbackImageReader()
	}

	avatarCache.Store(url, imgData)

	return tgbotapi.FileBytes{
		Name:  "avatar" + extensionFromContentType(contentType),
		Bytes: imgData,
	}
}

func downloadAndValidateAvatar(url string) ([]byte, string, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("http get failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	imgData, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read failed: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(imgData)
	}

	if !validMimeTypes[contentType] {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	if len(imgData) < 256 {
		return nil, "", fmt.Errorf("image too small: %d bytes", len(imgData))
	}

	_, _, err = image.DecodeConfig(bytes.NewReader(imgData))
	if err != nil {
		return nil, "", fmt.Errorf("invalid image format: %w", err)
	}

	return imgData, contentType, nil
}

func extensionFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

func getFallbackImageReader() tgbotapi.RequestFileData {
	if !fallbackLoaded {
		if err := InitAvatarCache(); err != nil {
			slog.Error("Failed to load fallback image", "error", err)
			return tgbotapi.FilePath("./static/no-avatar.png")
		}
	}
	return tgbotapi.FileBytes{
		Name:  "no-avatar.png",
		Bytes: fallbackImage,
	}
}

func ClearAvatarCachePeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			clearCount := 0
			avatarCache.Range(func(key, value interface{}) bool {
				avatarCache.Delete(key)
				clearCount++
				return true
			})
			slog.Info("Avatar cache cleared", "count", clearCount)
		case <-ctx.Done():
			return
		}
	}
}
