package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	imagepkg "github.com/youruser/sitecards/internal/image"
	"github.com/youruser/sitecards/internal/screenshot"
	"github.com/youruser/sitecards/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(r screenshot.Renderer, out store.Store) *gin.Engine {
	return NewRouter(&Server{
		Compositor: imagepkg.NewCompositor(imagepkg.DefaultCardLayout(500, 700), imagepkg.DefaultFonts(25, 40)),
		QR:         imagepkg.NewQREncoder(),
		Renderer:   r,
		Retry:      screenshot.Retry{Attempts: 3},
		Output:     out,
		WrapWidth:  34,
		Logger:     log.New(io.Discard),
	})
}

func okRenderer() screenshot.Renderer {
	return screenshot.RendererFunc(func(context.Context, string) (image.Image, error) {
		return imaging.New(320, 240, color.NRGBA{B: 255, A: 255}), nil
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(okRenderer(), store.NewMemoryStore()), http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("health = %d %s", w.Code, w.Body)
	}
}

func TestQR(t *testing.T) {
	srv := newTestServer(okRenderer(), store.NewMemoryStore())

	w := do(t, srv, http.MethodGet, "/api/qr?text=https://go.dev&size=200", "")
	if w.Code != http.StatusOK {
		t.Fatalf("qr = %d %s", w.Code, w.Body)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("qr bounds = %v, want 200x200", b)
	}

	for _, target := range []string{"/api/qr", "/api/qr?text=x&size=0", "/api/qr?text=x&size=big"} {
		if w := do(t, srv, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", target, w.Code)
		}
	}
}

func TestWrap(t *testing.T) {
	srv := newTestServer(okRenderer(), store.NewMemoryStore())

	w := do(t, srv, http.MethodGet, "/api/wrap?text=one+two+three&width=7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("wrap = %d %s", w.Code, w.Body)
	}
	var got struct{ Lines []string }
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, got.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if w := do(t, srv, http.MethodGet, "/api/wrap?text=x&width=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("negative width = %d, want 400", w.Code)
	}
}

func TestCard(t *testing.T) {
	srv := newTestServer(okRenderer(), store.NewMemoryStore())

	w := do(t, srv, http.MethodPost, "/api/card", `{"url":"https://go.dev","description":"The Go home page"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("card = %d %s", w.Code, w.Body)
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 700 || b.Dy() != 500 {
		t.Errorf("card bounds = %v, want 700x500", b)
	}

	for _, body := range []string{`{"url":"","description":"x"}`, `{"url":"https://go.dev"}`, `not json`} {
		if w := do(t, srv, http.MethodPost, "/api/card", body); w.Code != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", body, w.Code)
		}
	}
}

func TestCardRenderFailures(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		calls int
		want  int
	}{
		{"transient exhausted", screenshot.Transient(errors.New("timeout")), 3, http.StatusBadGateway},
		{"fatal", errors.New("404 from site"), 1, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			r := screenshot.RendererFunc(func(context.Context, string) (image.Image, error) {
				calls++
				return nil, tt.err
			})
			w := do(t, newTestServer(r, store.NewMemoryStore()), http.MethodPost, "/api/card",
				`{"url":"https://example.com","description":"Example"}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if calls != tt.calls {
				t.Errorf("renderer calls = %d, want %d", calls, tt.calls)
			}
		})
	}
}

func TestPages(t *testing.T) {
	out := store.NewMemoryStore()
	ctx := context.Background()
	blank := imaging.New(1, 1, color.White)
	for _, name := range []string{"index_0", "2", "title_0", "10", "notes", "1"} {
		if err := out.Save(ctx, name, blank); err != nil {
			t.Fatal(err)
		}
	}

	w := do(t, newTestServer(okRenderer(), out), http.MethodGet, "/api/pages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("pages = %d %s", w.Code, w.Body)
	}
	var got struct {
		Pages   []string `json:"pages"`
		Skipped []string `json:"skipped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"title_0", "1", "2", "10", "index_0"}, got.Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"notes"}, got.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}
