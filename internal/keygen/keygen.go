// Package keygen derives storage keys of the form {basename}-{epochMillis}{ext}.
package keygen

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var ErrInvalidFilename = errors.New("invalid filename")

type InvalidFilenameError struct {
	Filename string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid filename %q", e.Filename)
}

func (e *InvalidFilenameError) Unwrap() error { return ErrInvalidFilename }

// Deriver is safe for concurrent use. Keys issued by one Deriver never share a timestamp.
type Deriver struct {
	now  func() time.Time
	last atomic.Int64
}

func NewDeriver(now func() time.Time) *Deriver {
	if now == nil {
		now = time.Now
	}
	return &Deriver{now: now}
}

func (d *Deriver) Derive(filename string) (string, error) {
	base, ext, err := Split(filename)
	if err != nil {
		return "", err
	}
	return base + "-" + strconv.FormatInt(d.tick(), 10) + ext, nil
}

// tick returns the current epoch millisecond, moved forward past the last one handed out.
func (d *Deriver) tick() int64 {
	ms := d.now().UnixMilli()
	for {
		last := d.last.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if d.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Split strips directory components and separates the extension.
// Dot-files such as ".env" have no extension.
func Split(filename string) (base, ext string, err error) {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", "", &InvalidFilenameError{Filename: filename}
	}

	ext = path.Ext(name)
	if ext == name {
		ext = ""
	}
	return strings.TrimSuffix(name, ext), ext, nil
}
