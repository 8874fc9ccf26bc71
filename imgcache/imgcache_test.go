package imgcache

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"navippon/models"
)

type memSetter struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memSetter) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func (m *memSetter) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 45, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestCacheAllPartialFailure(t *testing.T) {
	pngBytes := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/broken") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))
	defer srv.Close()

	kv := &memSetter{}
	cache := New(kv)

	experiences := []models.Experience{
		{ExperienceID: "e1", Photo: srv.URL + "/a.png"},
		{ExperienceID: "e2", Photo: srv.URL + "/broken.png"},
		{ExperienceID: "e3", Photo: "file:///etc/passwd"},
		{ExperienceID: "e4", Photo: srv.URL + "/b.png"},
	}

	results := cache.CacheAll(context.Background(), experiences)
	if len(results) != len(experiences) {
		t.Fatalf("expected %d results, got %d", len(experiences), len(results))
	}

	byID := make(map[string]Result)
	for _, res := range results {
		byID[res.ExperienceID] = res
	}

	for _, id := range []string{"e1", "e4"} {
		if byID[id].Err != nil {
			t.Fatalf("%s: unexpected error %v", id, byID[id].Err)
		}
		encoded, ok := kv.get("offline_image_" + id)
		if !ok {
			t.Fatalf("%s: no cached entry", id)
		}
		if !strings.HasPrefix(encoded, "data:image/jpeg;base64,") {
			t.Fatalf("%s: not a data url: %.40s", id, encoded)
		}
	}

	// the two failures are recorded but never abort the others
	if byID["e2"].Err == nil {
		t.Fatal("e2 should have failed on a 500 response")
	}
	if byID["e3"].Err == nil {
		t.Fatal("e3 should have failed on a non-http url")
	}
	if _, ok := kv.get("offline_image_e2"); ok {
		t.Fatal("e2 should not have a cached entry")
	}
}

func TestDecodeDataURLRoundTrip(t *testing.T) {
	pngBytes := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer srv.Close()

	kv := &memSetter{}
	cache := New(kv)
	results := cache.CacheAll(context.Background(), []models.Experience{{ExperienceID: "e1", Photo: srv.URL + "/x.png"}})
	if results[0].Err != nil {
		t.Fatalf("cache: %v", results[0].Err)
	}

	raw, err := DecodeDataURL(results[0].Encoded)
	if err != nil {
		t.Fatalf("decode data url: %v", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("cached bytes are not a decodable image: %v", err)
	}
}

func TestDecodeDataURLRejectsPlainString(t *testing.T) {
	if _, err := DecodeDataURL("not a data url"); err == nil {
		t.Fatal("expected error for a non data-url string")
	}
}
