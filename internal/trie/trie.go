// Package trie implements the static byte-keyed prefix trie that backs the
// binary dictionary and the system language model files. A trie is built once
// by a Builder, serialized to a compact image, and then served read-only
// directly from the image bytes; lookups never allocate nodes.
package trie

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Magic is the four-byte tag at the start of every trie image.
const Magic = "AKTR"

// FormatVersion is the image layout version this package reads and writes.
const FormatVersion = 1

const (
	headerSize = 16
	nodeSize   = 16

	flagHasValue = 0x01
)

var (
	// ErrBadMagic is the error returned when a file does not start with the
	// trie image magic and therefore cannot be a trie at all.
	ErrBadMagic = errors.New("not a trie image (bad magic)")

	// ErrBadVersion is the error returned when a trie image has a layout
	// version this package does not understand.
	ErrBadVersion = errors.New("unsupported trie image version")

	// ErrTruncated is the error returned when a trie image is shorter than
	// its header claims it should be.
	ErrTruncated = errors.New("trie image is truncated")
)

// Trie is a read-only prefix trie served from a serialized image. It is safe
// for concurrent use; all state is immutable after New returns.
//
// Node records live in a flat array. The children of a node are stored
// contiguously, ordered by label byte, so descending one byte is a binary
// search inside a single slab of the image.
type Trie struct {
	nodes  []byte
	values []byte
	count  uint32
}

// New interprets data as a trie image. The returned Trie keeps a reference to
// data; the caller must not modify it afterwards. The data slice may come
// from a memory-mapped file, nothing is copied.
func New(data []byte) (*Trie, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if string(data[0:4]) != Magic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	count := binary.LittleEndian.Uint32(data[8:12])
	valuesLen := binary.LittleEndian.Uint32(data[12:16])

	nodesEnd := headerSize + int(count)*nodeSize
	if nodesEnd+int(valuesLen) > len(data) {
		return nil, ErrTruncated
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no root node", ErrTruncated)
	}

	return &Trie{
		nodes:  data[headerSize:nodesEnd],
		values: data[nodesEnd : nodesEnd+int(valuesLen)],
		count:  count,
	}, nil
}

// Load reads a trie image from the file at path. The whole image is read
// into memory; the returned Trie serves lookups straight from that buffer.
func Load(path string) (*Trie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load trie image: %w", err)
	}
	t, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("load trie image %s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of keys in the trie.
func (t *Trie) Len() int {
	n := 0
	for i := uint32(0); i < t.count; i++ {
		if t.flags(i)&flagHasValue != 0 {
			n++
		}
	}
	return n
}

// Get returns the value stored under key, or (nil, false) if the key is not
// present. The returned slice aliases the trie image and must not be written.
func (t *Trie) Get(key string) ([]byte, bool) {
	node := uint32(0)
	for i := 0; i < len(key); i++ {
		next, ok := t.child(node, key[i])
		if !ok {
			return nil, false
		}
		node = next
	}
	if t.flags(node)&flagHasValue == 0 {
		return nil, false
	}
	return t.value(node), true
}

// Has returns whether key is present in the trie.
func (t *Trie) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// CommonPrefixes returns every key in the trie that is a prefix of key,
// shortest first. key itself is included when present. This is the common
// prefix search the dictionary lookup is built on.
func (t *Trie) CommonPrefixes(key string) []string {
	var found []string
	node := uint32(0)
	for i := 0; i < len(key); i++ {
		next, ok := t.child(node, key[i])
		if !ok {
			return found
		}
		node = next
		if t.flags(node)&flagHasValue != 0 {
			found = append(found, key[:i+1])
		}
	}
	return found
}

// WalkFunc is called once per key by Walk. Returning a non-nil error stops
// the walk and is passed through to the caller.
type WalkFunc func(key string, value []byte) error

// Walk visits every key in the trie in lexicographic byte order.
func (t *Trie) Walk(fn WalkFunc) error {
	return t.walk(0, nil, fn)
}

func (t *Trie) walk(node uint32, prefix []byte, fn WalkFunc) error {
	if t.flags(node)&flagHasValue != 0 {
		if err := fn(string(prefix), t.value(node)); err != nil {
			return err
		}
	}
	first, n := t.children(node)
	for i := uint32(0); i < n; i++ {
		c := first + i
		if err := t.walk(c, append(prefix, t.label(c)), fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trie) label(node uint32) byte {
	return t.nodes[node*nodeSize]
}

func (t *Trie) flags(node uint32) byte {
	return t.nodes[node*nodeSize+1]
}

func (t *Trie) children(node uint32) (first, count uint32) {
	off := node * nodeSize
	count = uint32(binary.LittleEndian.Uint16(t.nodes[off+2 : off+4]))
	first = binary.LittleEndian.Uint32(t.nodes[off+4 : off+8])
	return first, count
}

func (t *Trie) value(node uint32) []byte {
	off := node * nodeSize
	vOff := binary.LittleEndian.Uint32(t.nodes[off+8 : off+12])
	vLen := binary.LittleEndian.Uint32(t.nodes[off+12 : off+16])
	return t.values[vOff : vOff+vLen]
}

// child finds the child of node whose edge is labeled c, by binary search
// over the node's contiguous child block.
func (t *Trie) child(node uint32, c byte) (uint32, bool) {
	first, count := t.children(node)
	lo, hi := uint32(0), count
	for lo < hi {
		mid := (lo + hi) / 2
		l := t.label(first + mid)
		switch {
		case l == c:
			return first + mid, true
		case l < c:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}
