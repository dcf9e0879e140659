package io

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/slfkit/pkg/errors"
)

// WriteFileAtomic writes the output of write to path. Data goes to a
// temporary file in the same directory which is flushed, synced and renamed
// over path only if write succeeds; on any failure the temporary file is
// removed and path is left untouched.
//
// Failures are reported as IO_WRITE errors unless write itself returned an
// *errors.Error, which is passed through.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeIOWrite, err, "create temporary file").At(path, 0)
	}
	tmp := f.Name()
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				_ = f.Close()
			}
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriterSize(f, 256*1024)
	if err = write(bw); err != nil {
		return writeErr(path, err, "write")
	}
	if err = bw.Flush(); err != nil {
		return writeErr(path, err, "flush")
	}
	if err = f.Sync(); err != nil {
		return writeErr(path, err, "sync")
	}
	closed = true
	if err = f.Close(); err != nil {
		return writeErr(path, err, "close")
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return writeErr(path, err, "chmod")
	}
	if err = os.Rename(tmp, path); err != nil {
		return writeErr(path, err, "rename")
	}
	return nil
}

// WriteBytesAtomic writes data to path with [WriteFileAtomic].
func WriteBytesAtomic(path string, data []byte) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeErr(path string, err error, op string) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Wrap(errs.ErrCodeIOWrite, err, "%s", op).At(path, 0)
}

// openInput opens path for reading, mapping failures to IO_READ.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIORead, err, "open").At(path, 0)
	}
	return f, nil
}
