package screenshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func solid(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	return img
}

// scripted returns the errors in order, then succeeds.
func scripted(calls *int, errs ...error) Renderer {
	return RendererFunc(func(ctx context.Context, url string) (image.Image, error) {
		*calls++
		if *calls <= len(errs) {
			return nil, errs[*calls-1]
		}
		return solid(4, 4), nil
	})
}

func TestFetch(t *testing.T) {
	boom := errors.New("boom")
	fatal := errors.New("not found")

	tests := []struct {
		name      string
		errs      []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first try", nil, 3, 1, nil},
		{"recovers", []error{Transient(boom), Transient(boom)}, 3, 3, nil},
		{"exhausted", []error{Transient(boom), Transient(boom), Transient(boom)}, 3, 3, boom},
		{"fatal not retried", []error{fatal}, 3, 1, fatal},
		{"fatal after transient", []error{Transient(boom), fatal}, 3, 2, fatal},
		{"zero attempts means one", []error{Transient(boom)}, 0, 1, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls, retries int
			img, err := Fetch(context.Background(), scripted(&calls, tt.errs...), "https://example.com", Retry{
				Attempts: tt.attempts,
				OnRetry:  func(int, error) { retries++ },
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil || img == nil {
					t.Fatalf("Fetch() = %v, %v", img, err)
				}
				if retries != calls-1 {
					t.Errorf("retries = %d, want %d", retries, calls-1)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchExhaustedStaysTransient(t *testing.T) {
	var calls int
	_, err := Fetch(context.Background(), scripted(&calls, Transient(errors.New("a")), Transient(errors.New("b"))), "https://example.com", Retry{Attempts: 2})
	if !IsTransient(err) {
		t.Errorf("IsTransient(%v) = false", err)
	}
	if err.Error() != "b" {
		t.Errorf("error = %q, want last failure", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	r := RendererFunc(func(context.Context, string) (image.Image, error) {
		calls++
		cancel()
		return nil, Transient(errors.New("timeout"))
	})
	_, err := Fetch(ctx, r, "https://example.com", Retry{Attempts: 5, Delay: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) != nil")
	}
	base := errors.New("x")
	err := Transient(base)
	if !errors.Is(err, base) {
		t.Error("Transient does not unwrap")
	}
	if IsTransient(base) {
		t.Error("IsTransient(plain) = true")
	}
}

func TestCheckURL(t *testing.T) {
	for _, raw := range []string{"https://example.com/a", "http://localhost:8080"} {
		if _, err := checkURL(raw); err != nil {
			t.Errorf("checkURL(%q) error: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "example.com", "ftp://example.com", "https://", "://x"} {
		if _, err := checkURL(raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("checkURL(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHTTPRender(t *testing.T) {
	body := pngBytes(t)
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		switch gotURL {
		case "https://example.com/busy":
			w.WriteHeader(http.StatusBadGateway)
		case "https://example.com/gone":
			w.WriteHeader(http.StatusNotFound)
		case "https://example.com/junk":
			w.Write([]byte("not an image"))
		default:
			w.Write(body)
		}
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL+"/shot?url={url}", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	img, err := h.Render(ctx, "https://example.com/a?b=c&d=e")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if gotURL != "https://example.com/a?b=c&d=e" {
		t.Errorf("service saw url %q", gotURL)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}

	tests := []struct {
		url       string
		transient bool
	}{
		{"https://example.com/busy", true},
		{"https://example.com/gone", false},
		{"https://example.com/junk", false},
	}
	for _, tt := range tests {
		_, err := h.Render(ctx, tt.url)
		if err == nil {
			t.Errorf("Render(%s) succeeded", tt.url)
			continue
		}
		if IsTransient(err) != tt.transient {
			t.Errorf("Render(%s) transient = %v, want %v (%v)", tt.url, !tt.transient, tt.transient, err)
		}
	}

	if _, err := h.Render(ctx, "mailto:someone@example.com"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Render(mailto) error = %v, want ErrInvalidURL", err)
	}
}

func TestHTTPUnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/?u={url}"
	srv.Close()

	h, err := NewHTTP(endpoint, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.Render(context.Background(), "https://example.com")
	if !IsTransient(err) {
		t.Errorf("Render() error = %v, want transient", err)
	}
}

func TestNewHTTPPlaceholder(t *testing.T) {
	_, err := NewHTTP("http://shots.local/render", time.Second)
	if err == nil || !strings.Contains(err.Error(), "{url}") {
		t.Errorf("NewHTTP() error = %v", err)
	}
}

func TestChromeMissingBinaryIsFatal(t *testing.T) {
	c := NewChrome(ChromeOptions{ExecPath: filepath.Join(t.TempDir(), "no-such-chrome")})
	defer c.Close()

	if _, err := c.Render(context.Background(), "not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Render(invalid) error = %v, want ErrInvalidURL", err)
	}
	_, err := c.Render(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("Render() succeeded without a browser")
	}
	if IsTransient(err) {
		t.Errorf("Render() error = %v, want fatal", err)
	}
}
