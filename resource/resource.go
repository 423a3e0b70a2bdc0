// Package resource loads the binary resource files shared by every
// analyzer handle: word dictionaries, the connection table, the grammar
// table, the unknown-word and English-token tables, and the
// normalization table.
//
// Every resource begins with a 48-byte ASCII comment followed by a
// 16-byte ASCII version tag (spec §6). Resources are memory-mapped with
// github.com/edsrzf/mmap-go, the same zero-copy approach the teacher
// repo uses to load its DAWG dictionary: the file is never copied into
// the Go heap, the OS pages it in on demand, and the returned slices
// borrow the mapping for as long as the Image is open.
package resource

import (
	"bytes"
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"

	"github.com/unalang/una/unaerr"
)

const (
	commentSize = 48
	versionSize = 16
	headerSize  = commentSize + versionSize
)

// Tag is a 16-byte, space-padded version tag as defined in spec §6.
type Tag string

// Supported version tags, verbatim from spec §6.
const (
	TagWordDictV125Void   Tag = "WRD V1.25V-   "
	TagWordDictV125       Tag = "WRD V1.25-    "
	TagWordDictV124       Tag = "WRD V1.24-    "
	TagAppInfoDict        Tag = "WRD APP V1.23-"
	TagConnection         Tag = "CON V1.16-    "
	TagGrammar            Tag = "GRM V1.11-    "
	TagEnglishWithCost    Tag = "EMK V1.08-    "
	TagEnglishLegacy      Tag = "EMK V1.07-    "
	TagUnknownCharClass   Tag = "UMK V1.01-    "
	TagUnknownCostTable   Tag = "UC V1.02-     "
	TagNormalization      Tag = "STD V1.01-    "
)

// Image is a memory-mapped resource file: the comment/version header
// plus the raw body bytes following it. Callers reinterpret Body via
// Slice to obtain typed, zero-copy views into the mapping.
type Image struct {
	Comment string
	Version Tag
	Body    []byte

	mm   mmap.MMap
	file *os.File
}

// Open maps path into memory and validates its header against allowed.
// The resource name is used only for diagnostics and error messages.
func Open(name, path string, allowed []Tag, log zerolog.Logger) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("una/resource: open %s: %w", name, err)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("una/resource: mmap %s: %w", name, err)
	}

	if len(mm) < headerSize {
		_ = mm.Unmap()
		f.Close()
		return nil, &unaerr.MalformedError{Resource: name, Offset: 0, Reason: "file shorter than header"}
	}

	comment := string(bytes.TrimRight(mm[:commentSize], "\x00 "))
	version := Tag(mm[commentSize:headerSize])

	ok := len(allowed) == 0
	for _, t := range allowed {
		if t == version {
			ok = true
			break
		}
	}
	if !ok {
		_ = mm.Unmap()
		f.Close()
		log.Error().Str("resource", name).Str("tag", string(version)).Msg("version mismatch")
		return nil, &unaerr.VersionError{Resource: name, Got: string(version)}
	}

	log.Debug().Str("resource", name).Str("tag", string(version)).Int("bytes", len(mm)).Msg("mapped resource")

	return &Image{
		Comment: comment,
		Version: version,
		Body:    mm[headerSize:],
		mm:      mm,
		file:    f,
	}, nil
}

// Close unmaps the file and releases the file descriptor.
func (img *Image) Close() error {
	if img == nil {
		return nil
	}
	var err error
	if img.mm != nil {
		err = img.mm.Unmap()
	}
	if img.file != nil {
		if cerr := img.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader tracks a read cursor into an Image's Body, the way the
// teacher's loadInternal walks header.*Offset/*.Count fields
// sequentially. It centralizes the bounds checking every resource
// parser needs.
type Reader struct {
	name string
	buf  []byte
	pos  int64
}

// NewReader starts a Reader at the beginning of body.
func NewReader(name string, body []byte) *Reader {
	return &Reader{name: name, buf: body}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int64 { return r.pos }

// Bytes returns n raw bytes at the cursor and advances it.
func (r *Reader) Bytes(n int64) ([]byte, error) {
	if n < 0 || r.pos+n > int64(len(r.buf)) {
		return nil, &unaerr.MalformedError{Resource: r.name, Offset: r.pos, Reason: "read past end of resource"}
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor n bytes without returning them.
func (r *Reader) Skip(n int64) error {
	_, err := r.Bytes(n)
	return err
}

// Slice reinterprets the next count*sizeof(T) bytes as a []T without
// copying, mirroring the teacher's bytesToSlice helper. T must be a
// fixed-size, pointer-free struct matching the little-endian wire
// layout described in spec §6.
func Slice[T any](r *Reader, count int64) ([]T, error) {
	if count == 0 {
		return nil, nil
	}
	var zero T
	size := int64(unsafe.Sizeof(zero))
	b, err := r.Bytes(count * size)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), count), nil
}
