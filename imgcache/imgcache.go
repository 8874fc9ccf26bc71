package imgcache

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"navippon/models"
)

const (
	imageKeyPrefix = "offline_image_"
	maxBodyBytes   = 8 << 20
	maxWidth       = 1280
)

// Setter is the slice of the key-value store the cache writes through.
type Setter interface {
	Set(ctx context.Context, key, value string) error
}

// Result records the outcome of caching one experience image. Failures are
// data, not aborts; the batch contract is "cache what you can".
type Result struct {
	ExperienceID string
	Encoded      string
	Err          error
}

// Cache mirrors remote experience images into the offline store as
// self-describing data URLs so they render without network access.
type Cache struct {
	kv     Setter
	client *http.Client
}

func New(kv Setter) *Cache {
	return &Cache{
		kv:     kv,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// CacheAll fetches and stores every experience photo concurrently and waits
// for the whole batch to settle. A single failure never aborts the rest.
func (c *Cache) CacheAll(ctx context.Context, experiences []models.Experience) []Result {
	results := make([]Result, len(experiences))

	var wg sync.WaitGroup
	for i, exp := range experiences {
		wg.Add(1)
		go func(i int, exp models.Experience) {
			defer wg.Done()
			results[i] = c.cacheOne(ctx, exp)
		}(i, exp)
	}
	wg.Wait()

	return results
}

func (c *Cache) cacheOne(ctx context.Context, exp models.Experience) Result {
	encoded, err := c.fetchEncode(ctx, exp.Photo)
	if err != nil {
		log.Printf("imgcache: skipping %s: %v", exp.ExperienceID, err)
		return Result{ExperienceID: exp.ExperienceID, Err: err}
	}

	if err := c.kv.Set(ctx, imageKeyPrefix+exp.ExperienceID, encoded); err != nil {
		log.Printf("imgcache: store failed for %s: %v", exp.ExperienceID, err)
		return Result{ExperienceID: exp.ExperienceID, Err: err}
	}
	return Result{ExperienceID: exp.ExperienceID, Encoded: encoded}
}

// fetchEncode downloads one image and re-encodes it as a jpeg data URL,
// downscaling oversized photos so cached entries stay bounded.
func (c *Cache) fetchEncode(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("not an http(s) url: %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(82)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL converts a cached data URL back to raw image bytes.
func DecodeDataURL(encoded string) ([]byte, error) {
	_, b64, ok := strings.Cut(encoded, ";base64,")
	if !ok {
		return nil, fmt.Errorf("not a base64 data url")
	}
	return base64.StdEncoding.DecodeString(b64)
}
