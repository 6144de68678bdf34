// core/fasta/open.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type closerFunc func()

func (f closerFunc) Close() error { f(); return nil }

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// Open returns a reader over the decompressed contents of path. "-" reads
// stdin. gzip, zstd, lz4 and s2/snappy framed streams are recognized by
// magic number or by suffix (.gz, .zst, .lz4, .sz, .s2).
func Open(path string) (io.ReadCloser, error) {
	var (
		src    io.Reader
		closer io.Closer
	)
	if path == "-" {
		src, closer = os.Stdin, closerFunc(func() {})
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src, closer = fh, fh
	}
	br := bufio.NewReaderSize(src, 64*1024)
	sig, _ := br.Peek(len(magicS2))
	has := func(magic []byte, suffixes ...string) bool {
		if bytes.HasPrefix(sig, magic) {
			return true
		}
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has(magicGzip, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, closer}}, nil
	case has(magicZstd, ".zst", ".zstd"):
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: zr, closers: []io.Closer{closerFunc(zr.Close), closer}}, nil
	case has(magicLZ4, ".lz4"):
		return &multiReadCloser{Reader: lz4.NewReader(br), closers: []io.Closer{closer}}, nil
	case has(magicS2, ".s2") || has(magicSnappy, ".sz"):
		return &multiReadCloser{Reader: s2.NewReader(br), closers: []io.Closer{closer}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{closer}}, nil
}
