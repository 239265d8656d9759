package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// inputFile is an opened input, transparently decompressed when it starts
// with the gzip magic bytes.
type inputFile struct {
	io.Reader
	closers []io.Closer
}

func (in *inputFile) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openInput opens path, or stdin for "-".
func openInput(path string) (*inputFile, error) {
	var f io.ReadCloser = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f = file
	}
	in, err := wrapInput(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func wrapInput(rc io.ReadCloser) (*inputFile, error) {
	br := bufio.NewReaderSize(rc, 64*1024)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	in := &inputFile{Reader: br, closers: []io.Closer{rc}}
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		in.Reader = gz
		in.closers = append(in.closers, gz)
	}
	return in, nil
}
