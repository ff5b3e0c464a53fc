// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import (
	"encoding/binary"
	"io"
)

// ReadFromBinary decodes a single TBDD binary blob from r and inserts its
// nodes into m's table, returning the resulting reference. This is
// tbdd_reader_frombinary from the package contract of spec.md §6.3, used by
// the model loader to read the initial-state set and every relation blob
// embedded in the model file (spec.md §6.1).
//
// Blob layout (little-endian):
//
//	uint32 tag        // root tag, or 0xFFFFFFFF for NoVar (leaf root)
//	uint32 count      // number of internal nodes that follow
//	repeated count times:
//	  uint32 v        // tested variable
//	  uint32 low      // index into this blob's node list, 0/1 = leaves
//	  uint32 high
//	uint32 root       // index of the root node, 0/1 = leaves
func (m *Manager) ReadFromBinary(r io.Reader) (Ref, error) {
	var hdr [2]uint32
	if err := readUint32s(r, hdr[:]); err != nil {
		return Ref{}, err
	}
	tag, count := hdr[0], hdr[1]

	local := make([]Node, count+2)
	local[falseNode] = falseNode
	local[trueNode] = trueNode

	buf := make([]uint32, 3)
	for i := uint32(0); i < count; i++ {
		if err := readUint32s(r, buf); err != nil {
			return Ref{}, err
		}
		v, lowIdx, highIdx := buf[0], buf[1], buf[2]
		if lowIdx >= i+2 || highIdx >= i+2 {
			return Ref{}, ErrBadReference
		}
		if int32(v) < 0 || int32(v) >= m.varnum {
			return Ref{}, ErrBadVar
		}
		local[i+2] = m.mk(int32(v), local[lowIdx], local[highIdx])
	}

	var rootBuf [1]uint32
	if err := readUint32s(r, rootBuf[:]); err != nil {
		return Ref{}, err
	}
	if rootBuf[0] >= count+2 {
		return Ref{}, ErrBadReference
	}
	root := local[rootBuf[0]]

	rtag := int32(NoVar)
	if tag != 0xFFFFFFFF {
		rtag = int32(tag)
	} else {
		rtag = m.varOf(root)
	}
	return Ref{Node: root, Tag: rtag}, nil
}

// WriteBinary encodes r in the same blob format ReadFromBinary consumes, by
// topologically numbering the reachable nodes. Primarily used by tests to
// round-trip fixtures without depending on an external model file.
func (m *Manager) WriteBinary(w io.Writer, r Ref) error {
	order := []Node{}
	index := map[Node]uint32{falseNode: 0, trueNode: 1}
	var visit func(Node)
	visit = func(n Node) {
		if _, ok := index[n]; ok {
			return
		}
		visit(m.lowOf(n))
		visit(m.highOf(n))
		index[n] = uint32(len(order) + 2)
		order = append(order, n)
	}
	visit(r.Node)

	tag := uint32(0xFFFFFFFF)
	if r.Tag != NoVar {
		tag = uint32(r.Tag)
	}
	if err := writeUint32s(w, []uint32{tag, uint32(len(order))}); err != nil {
		return err
	}
	for _, n := range order {
		rec := []uint32{uint32(m.varOf(n)), index[m.lowOf(n)], index[m.highOf(n)]}
		if err := writeUint32s(w, rec); err != nil {
			return err
		}
	}
	return writeUint32s(w, []uint32{index[r.Node]})
}

func readUint32s(r io.Reader, out []uint32) error {
	buf := make([]byte, 4*len(out))
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return ErrShortRead
		}
		return err
	}
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return nil
}

func writeUint32s(w io.Writer, vals []uint32) error {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	_, err := w.Write(buf)
	return err
}
