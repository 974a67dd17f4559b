// Package expreport holds file-plumbing helpers shared by the expression
// report pipeline.
package expreport

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the compression of a stream by checking
// its leading bytes against a set of known signatures. Byte code signatures
// from https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return DataTypeInvalid, err
	}

Outer:
	for dt, sig := range byteCodeSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// OpenMaybeCompressed opens the file at path (after ~ expansion) and, if it
// carries a known compression signature, wraps it in the matching
// decompressor. The upstream pipeline sometimes hands us gzipped matrices, so
// the loaders shouldn't have to care.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, pfx.Err(err)
	}

	dt, err := DetectDataType(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	// Reset to the start now that the signature has been consumed
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	switch dt {
	case DataTypeGzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &wrappedReadCloser{gzr, f}, nil
	case DataTypeZip:
		return &wrappedReadCloser{io.NopCloser(zipstream.NewReader(f)), f}, nil
	case DataTypeBZip2:
		return &wrappedReadCloser{io.NopCloser(bzip2.NewReader(f)), f}, nil
	case DataTypeXZ:
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &wrappedReadCloser{io.NopCloser(xzr), f}, nil
	case DataTypeZ:
		zr, err := zlib.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &wrappedReadCloser{zr, f}, nil
	}

	return f, nil
}

// wrappedReadCloser closes both the decompressor and the underlying file.
type wrappedReadCloser struct {
	io.ReadCloser
	underlying io.Closer
}

func (w *wrappedReadCloser) Close() error {
	if err := w.ReadCloser.Close(); err != nil {
		w.underlying.Close()
		return err
	}

	return w.underlying.Close()
}

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file. The report's inputs
// are expected to be tab-delimited, so tab is the fallback.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path, pfx.Err(err)
		}
		path = filepath.Join(usr.HomeDir, (path)[2:])
	}

	return path, nil
}
