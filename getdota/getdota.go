// Package getdota scrapes the latest game version from a web page.
package getdota

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/net/html/charset"
)

// DefaultURL is the page scanned for the current version.
const DefaultURL = "http://www.getdota.com"

// maxBodySize caps how much of the page is read.
const maxBodySize = 4 << 20

// ErrNoVersion is returned by Latest when the page has no version-like token.
var ErrNoVersion = errors.New("no version found in page")

// versionRE matches "1-2 digits, dot, 1-2 digits" plus an optional letter
// suffix such as the "b" in 7.35b.
var versionRE = regexp.MustCompile(`\d{1,2}\.\d{1,2}\D?`)

// Client fetches the version page.
type Client struct {
	http *http.Client
	url  string
}

// New constructs a *Client. A nil c uses http.DefaultClient and an empty url
// uses DefaultURL.
func New(c *http.Client, url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http: c,
		url:  url,
	}
}

// Latest fetches the page once and returns the first version-like token in
// its body. It returns ErrNoVersion when the page has none.
func (c *Client) Latest(ctx context.Context) (string, error) {
	ctx, span := trace.StartSpan(ctx, "getdota.Latest")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("url", c.url))

	body, err := c.get(ctx)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnavailable, Message: err.Error()})
		return "", err
	}

	version, ok := ExtractVersion(body)
	if !ok {
		span.SetStatus(trace.Status{Code: trace.StatusCodeNotFound, Message: ErrNoVersion.Error()})
		return "", ErrNoVersion
	}
	span.AddAttributes(trace.StringAttribute("version", version))

	return version, nil
}

// ExtractVersion returns the first version-like token in body. Bytes that
// are not valid UTF-8 are dropped first so they never reach a reply.
func ExtractVersion(body []byte) (string, bool) {
	match := versionRE.FindString(strings.ToValidUTF8(string(body), ""))
	if match == "" {
		return "", false
	}
	return match, true
}

// get makes an HTTP GET request to the page and returns its body.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request to %q", c.url)
	}
	req.Header.Add("User-Agent", "sniper Slack bot")

	resp, err := ctxhttp.Do(ctx, c.http, req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("non-2xx status code: %d - %s", resp.StatusCode, resp.Status)
	}

	// Pages may be served in a legacy encoding such as TIS-620.
	r, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.Wrap(err, "decoding response body")
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	return body, nil
}
