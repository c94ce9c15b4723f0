package artifact

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// httpClient is shared by all URL fetches. The transport's transparent gzip
// handling covers servers that honor Accept-Encoding; the magic-byte check
// in maybeGunzip covers pre-compressed payloads served as-is.
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// Fetch retrieves raw artifact bytes from a local path or an http(s) URL,
// decompressing gzip payloads transparently.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetchURL(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, source, err)
	}
	data, err = maybeGunzip(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, source, err)
	}
	return data, nil
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// maybeGunzip decompresses data when it carries the gzip magic bytes and
// returns it untouched otherwise.
func maybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
