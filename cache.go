package dompower

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// cachedResponse is the subset of an HTTP response worth replaying,
// stored as plain JSON on disk.
type cachedResponse struct {
	Status     string              `json:"status"`
	StatusCode int                 `json:"status_code"`
	Proto      string              `json:"proto"`
	Header     map[string][]string `json:"header"`
	Body       []byte              `json:"body"`
}

// CachingRoundTripper is an http.RoundTripper that replays GET
// responses from a directory of JSON files, for repeated runs over the
// same date range. Only GETs are cached: token refresh is a POST that
// consumes a single-use refresh token, and replaying one from disk
// would hand out a dead pair.
type CachingRoundTripper struct {
	// UnderlyingTransport handles cache misses and all non-GET
	// requests. If nil, http.DefaultTransport is used.
	UnderlyingTransport http.RoundTripper

	// CacheDir is the directory where response files are stored.
	CacheDir string
}

func (c *CachingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := c.UnderlyingTransport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if req.Method != http.MethodGet {
		return transport.RoundTrip(req)
	}

	path := c.cacheFilePath(cacheKey(req.Method, req.URL.String()))

	if _, err := os.Stat(path); err == nil {
		return loadCachedResponse(path, req)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cr := cachedResponse{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header.Clone(),
		Body:       body,
	}

	// Only successes are worth replaying. A persisted 401 would be
	// served to the retry after a token refresh and to every later run
	// over the same range.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return buildHTTPResponse(req, cr), nil
	}

	if err := saveCachedResponse(path, &cr); err != nil {
		return nil, err
	}

	return buildHTTPResponse(req, cr), nil
}

// cacheKey hashes the method and URL; headers are deliberately ignored
// so rotated bearer tokens still hit the same entry.
func cacheKey(method, url string) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte(url))
	return hex.EncodeToString(hash.Sum(nil))
}

func (c *CachingRoundTripper) cacheFilePath(key string) string {
	return filepath.Join(c.CacheDir, fmt.Sprintf("%s.json", key))
}

func loadCachedResponse(path string, req *http.Request) (*http.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cr cachedResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}

	return buildHTTPResponse(req, cr), nil
}

func saveCachedResponse(path string, cr *cachedResponse) error {
	data, err := json.Marshal(cr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func buildHTTPResponse(req *http.Request, cr cachedResponse) *http.Response {
	return &http.Response{
		Status:        cr.Status,
		StatusCode:    cr.StatusCode,
		Proto:         cr.Proto,
		Header:        cr.Header,
		Body:          io.NopCloser(strings.NewReader(string(cr.Body))),
		ContentLength: int64(len(cr.Body)),
		Request:       req,
	}
}
