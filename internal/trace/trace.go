// Package trace records per-frame shadow statistics as an lz4 compressed
// stream of YAML documents.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Version is the trace format version written by this package.
const Version = 1

// ErrBadTrace is returned for streams that are not traces of this version.
var ErrBadTrace = errors.New("not a shadow trace")

// Header is the first document of a trace.
type Header struct {
	Version int    `yaml:"version"`
	Quality string `yaml:"quality"`
	Lights  int    `yaml:"lights"`
	Cameras int    `yaml:"cameras"`
	Seed    int64  `yaml:"seed"`
}

// LightSample is the plan of one light in one frame, largest over all
// plans of the frame.
type LightSample struct {
	Name     string  `yaml:"name"`
	Distance float32 `yaml:"distance"`
	Static   int     `yaml:"static"`
	Dynamic  int     `yaml:"dynamic"`
}

// Record holds the statistics of one frame.
type Record struct {
	Frame          int           `yaml:"frame"`
	LiveTextures   int           `yaml:"live_textures"`
	Bytes          int64         `yaml:"bytes"`
	PoolTextures   int           `yaml:"pool_textures"`
	PoolInUse      int           `yaml:"pool_in_use"`
	Planned        int           `yaml:"planned"`
	Failed         int           `yaml:"failed,omitempty"`
	StaticRenders  int           `yaml:"static_renders"`
	DynamicRenders int           `yaml:"dynamic_renders"`
	Lights         []LightSample `yaml:"lights,omitempty"`
}

// Writer writes a trace.
type Writer struct {
	lzw    *lz4.Writer
	enc    *yaml.Encoder
	closer io.Closer
}

// NewWriter starts a trace on w and writes the header.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	lzw := lz4.NewWriter(w)
	if err := lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
		return nil, fmt.Errorf("configuring lz4: %w", err)
	}

	tw := &Writer{lzw: lzw, enc: yaml.NewEncoder(lzw)}
	h.Version = Version
	if err := tw.enc.Encode(h); err != nil {
		return nil, fmt.Errorf("writing trace header: %w", err)
	}
	return tw, nil
}

// Create creates the file at path and starts a trace in it.
func Create(path string, h Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	tw, err := NewWriter(f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	tw.closer = f
	return tw, nil
}

// Write appends a frame record.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing frame %d: %w", rec.Frame, err)
	}
	return nil
}

// Close flushes the stream. A file opened by Create is closed too.
func (w *Writer) Close() error {
	err := w.enc.Close()
	if cerr := w.lzw.Close(); err == nil {
		err = cerr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader reads a trace.
type Reader struct {
	dec    *yaml.Decoder
	header Header
	closer io.Closer
}

// NewReader reads the header of the trace in r.
func NewReader(r io.Reader) (*Reader, error) {
	tr := &Reader{dec: yaml.NewDecoder(lz4.NewReader(r))}
	if err := tr.dec.Decode(&tr.header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrBadTrace, err)
	}
	if tr.header.Version != Version {
		return nil, fmt.Errorf("%w: version %d", ErrBadTrace, tr.header.Version)
	}
	return tr, nil
}

// Open opens the trace file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tr, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	tr.closer = f
	return tr, nil
}

// Header returns the trace header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next record or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("reading record: %w", err)
	}
	return rec, nil
}

// Close closes a file opened by Open.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
