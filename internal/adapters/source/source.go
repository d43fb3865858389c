// Package source opens the upstream dictionary archive from an http(s), ftp or
// file URI and undoes its gzip layer
package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	perr "jmnedict/internal/platform/errors"

	"github.com/jlaffaye/ftp"
	"github.com/klauspost/compress/gzip"
)

// DefaultURL is the EDRDG distribution point
const DefaultURL = "http://ftp.edrdg.org/pub/Nihongo/JMnedict.xml.gz"

// Opener opens a raw (still compressed) source stream
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Multi dispatches on the URI scheme
type Multi struct {
	Client      *http.Client
	DialTimeout time.Duration
	UserAgent   string
}

// New builds a Multi; timeout 0 means no client timeout
func New(timeout time.Duration) *Multi {
	return &Multi{
		Client:      &http.Client{Timeout: timeout},
		DialTimeout: 30 * time.Second,
		UserAgent:   "jmnedict-fetch",
	}
}

// Open returns the body for uri. Bare paths and file:// URIs are opened locally
func (m *Multi) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "source: bad uri")
	}
	switch u.Scheme {
	case "http", "https":
		return m.openHTTP(ctx, u)
	case "ftp":
		return m.openFTP(ctx, u)
	case "file":
		return openFile(u.Path)
	case "":
		return openFile(uri)
	}
	return nil, perr.InvalidArgf("source: unsupported scheme %q", u.Scheme)
}

func (m *Multi) openHTTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "source: build request")
	}
	if m.UserAgent != "" {
		req.Header.Set("User-Agent", m.UserAgent)
	}
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: request failed")
	}
	if resp.StatusCode != http.StatusOK {
		if cerr := resp.Body.Close(); cerr != nil {
			return nil, perr.Fetchf("source: unexpected status %d for %s; error closing body: %v", resp.StatusCode, u.Redacted(), cerr)
		}
		return nil, perr.Fetchf("source: unexpected status %d for %s", resp.StatusCode, u.Redacted())
	}
	return resp.Body, nil
}

func (m *Multi) openFTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	host := u.Host
	if u.Port() == "" {
		host += ":21"
	}
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if m.DialTimeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(m.DialTimeout))
	}
	conn, err := ftp.Dial(host, opts...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: ftp dial")
	}
	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		_ = conn.Quit()
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: ftp login")
	}
	resp, err := conn.Retr(path.Clean(u.Path))
	if err != nil {
		_ = conn.Quit()
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: ftp retr")
	}
	return &ftpBody{resp: resp, conn: conn}, nil
}

// ftpBody ends the transfer then the session on Close
type ftpBody struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (b *ftpBody) Read(p []byte) (int, error) { return b.resp.Read(p) }

func (b *ftpBody) Close() error {
	err := b.resp.Close()
	if qerr := b.conn.Quit(); qerr != nil && err == nil {
		err = qerr
	}
	return err
}

func openFile(p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrap(err, perr.ErrorCodeNotFound, "source: open file")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: open file")
	}
	return f, nil
}

// Decompress wraps a gzip source stream. Closing the result closes both layers
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(rc)
	if err != nil {
		if cerr := rc.Close(); cerr != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeFetch, "source: gzip header (close: %v)", cerr)
		}
		return nil, perr.Wrap(err, perr.ErrorCodeFetch, "source: gzip header")
	}
	return &gzipBody{gz: gz, r: rc}, nil
}

type gzipBody struct {
	gz *gzip.Reader
	r  io.ReadCloser
}

func (b *gzipBody) Read(p []byte) (int, error) { return b.gz.Read(p) }

func (b *gzipBody) Close() error {
	var first error
	if err := b.gz.Close(); err != nil {
		first = err
	}
	if err := b.r.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
