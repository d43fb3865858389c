// Package metadata reads and writes the per-fetch metadata artifact, a Java-style
// properties file with the keys entryCount and timeUtc
package metadata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	perr "jmnedict/internal/platform/errors"

	"github.com/magiconair/properties"
)

// Property keys
const (
	KeyEntryCount = "entryCount"
	KeyTimeUTC    = "timeUtc"
)

// Metadata is one record per successful fetch
type Metadata struct {
	EntryCount int       `json:"entry_count"`
	TimeUTC    time.Time `json:"time_utc"`
}

// New stamps count with the current UTC time
func New(count int, now time.Time) Metadata {
	return Metadata{EntryCount: count, TimeUTC: now.UTC()}
}

// Write encodes m as properties with a leading timestamp comment
func Write(w io.Writer, m Metadata) error {
	p := properties.NewProperties()
	if _, _, err := p.Set(KeyEntryCount, strconv.Itoa(m.EntryCount)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "metadata: set entryCount")
	}
	if _, _, err := p.Set(KeyTimeUTC, m.TimeUTC.UTC().Format(time.RFC3339Nano)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "metadata: set timeUtc")
	}
	if _, err := fmt.Fprintf(w, "#%s\n", m.TimeUTC.UTC().Format(time.UnixDate)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "metadata: write header")
	}
	if _, err := p.Write(w, properties.UTF8); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "metadata: write")
	}
	return nil
}

// Read decodes a properties stream; both keys are required
func Read(r io.Reader) (Metadata, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Metadata{}, perr.Wrap(err, perr.ErrorCodeIO, "metadata: read")
	}
	return parse(buf)
}

// ReadFile reads the metadata artifact at path; a missing file maps to ErrorCodeNotFound
func ReadFile(path string) (Metadata, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, readErr(err, path)
	}
	return parse(buf)
}

// ReadFS is ReadFile over an fs.FS
func ReadFS(fsys fs.FS, name string) (Metadata, error) {
	buf, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Metadata{}, readErr(err, name)
	}
	return parse(buf)
}

func readErr(err error, name string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "metadata: %s not found", name)
	}
	return perr.Wrapf(err, perr.ErrorCodeIO, "metadata: read %s", name)
}

func parse(buf []byte) (Metadata, error) {
	p, err := properties.Load(buf, properties.UTF8)
	if err != nil {
		return Metadata{}, perr.Wrap(err, perr.ErrorCodeDecode, "metadata: parse")
	}

	rawCount, ok := p.Get(KeyEntryCount)
	if !ok {
		return Metadata{}, perr.Newf(perr.ErrorCodeDecode, "metadata: missing %s", KeyEntryCount)
	}
	n, err := strconv.Atoi(rawCount)
	if err != nil || n < 0 {
		return Metadata{}, perr.WithField(perr.Newf(perr.ErrorCodeDecode, "metadata: bad %s %q", KeyEntryCount, rawCount), KeyEntryCount)
	}

	rawTime, ok := p.Get(KeyTimeUTC)
	if !ok {
		return Metadata{}, perr.Newf(perr.ErrorCodeDecode, "metadata: missing %s", KeyTimeUTC)
	}
	ts, err := time.Parse(time.RFC3339Nano, rawTime)
	if err != nil {
		return Metadata{}, perr.WithField(perr.Wrapf(err, perr.ErrorCodeDecode, "metadata: bad %s %q", KeyTimeUTC, rawTime), KeyTimeUTC)
	}
	return Metadata{EntryCount: n, TimeUTC: ts.UTC()}, nil
}
