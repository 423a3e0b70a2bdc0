// Package dict implements registered-word dictionary lookup: a
// Revuz-style double-array trie over per-dictionary remapped character
// codes, in both the V1.25 and legacy V1.24 on-disk layouts (spec
// §4.2), homograph expansion, and collocation (priority) registration.
package dict

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/resource"
)

// Layout identifies which on-disk double-array encoding a Dictionary
// uses (spec §4.2, §6).
type Layout int

const (
	LayoutV125 Layout = iota // base:u32[] + label:u16[], 8-byte record-info
	LayoutV124               // packed (u19 base, u13 label) per u32, union record-info
)

// Collocation POS sentinels (spec §4.2).
const (
	CollocationV125 uint16 = 0xFFFF
	CollocationV124 uint16 = 0x7FF
)

// VoidMorphPOS is the fixed morpheme-POS number the original dictionary
// builder reserves for void words (UNA_HIN_VOID = 99 in unamorph.h).
// Records carrying this POS are translated to lattice.VoidPOS at
// registration time (spec §3, SPEC_FULL §4).
const VoidMorphPOS uint16 = 99

// EOK is the accepting-state label sentinel (label[state] == 0).
const EOK uint16 = 0

const recordInfoSizeV125 = 8

// record is the version-independent decoded record-info entry (spec §3
// "Dictionary").
type record struct {
	HomographCount uint8
	Cost           uint8
	POS            uint16
	CharLength     uint8
	SubListOffset  uint32
}

// Dictionary is one immutable, memory-mapped registered-word dictionary
// image, shared read-only across every handle (spec §3, §5).
type Dictionary struct {
	name     string
	priority uint8
	layout   Layout
	collSent uint16

	remap charclass.Table // 65536-entry Unicode -> internal code

	// V1.25 double array.
	base32  []uint32
	label16 []uint16

	// V1.24 packed double array: (base:19, label:13) per cell.
	packed []uint32

	subList []uint32
	records []record

	img *resource.Image
}

// Name returns the dictionary's base name (spec §6 dictionary-list
// file).
func (d *Dictionary) Name() string { return d.name }

// Priority returns the dictionary's 1..255 priority.
func (d *Dictionary) Priority() uint8 { return d.priority }

// Close unmaps the underlying resource.
func (d *Dictionary) Close() error { return d.img.Close() }

// Load opens and parses a word-dictionary resource file (spec §6's
// `WRD V1.25V-`, `WRD V1.25-` and `WRD V1.24-` tags), assigning it name
// and priority from the dictionary-list entry that named it.
func Load(path, name string, priority uint8, log zerolog.Logger) (*Dictionary, error) {
	img, err := resource.Open(name, path, []resource.Tag{
		resource.TagWordDictV125Void,
		resource.TagWordDictV125,
		resource.TagWordDictV124,
	}, log)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{name: name, priority: priority, img: img}

	switch img.Version {
	case resource.TagWordDictV125Void, resource.TagWordDictV125:
		d.layout = LayoutV125
		d.collSent = CollocationV125
		err = d.loadV125(img)
	case resource.TagWordDictV124:
		d.layout = LayoutV124
		d.collSent = CollocationV124
		err = d.loadV124(img)
	}
	if err != nil {
		img.Close()
		return nil, fmt.Errorf("una/dict: %s: %w", name, err)
	}

	log.Info().Str("dict", name).Uint8("priority", priority).Int("records", len(d.records)).Msg("loaded word dictionary")
	return d, nil
}

func (d *Dictionary) loadV125(img *resource.Image) error {
	r := resource.NewReader(d.name, img.Body)

	recordCount, err := r.Uint32()
	if err != nil {
		return err
	}
	subListCount, err := r.Uint32()
	if err != nil {
		return err
	}
	daCount, err := r.Uint32()
	if err != nil {
		return err
	}

	remap, err := r.Uint16Array(65536)
	if err != nil {
		return err
	}
	d.remap = charclass.Table(remap)

	base, err := r.Uint32Array(int64(daCount))
	if err != nil {
		return err
	}
	d.base32 = base

	label, err := r.Uint16Array(int64(daCount))
	if err != nil {
		return err
	}
	d.label16 = label

	subList, err := r.Uint32Array(int64(subListCount))
	if err != nil {
		return err
	}
	d.subList = subList

	recBytes, err := r.Bytes(int64(recordCount) * recordInfoSizeV125)
	if err != nil {
		return err
	}
	d.records = make([]record, recordCount)
	for i := range d.records {
		b := recBytes[i*recordInfoSizeV125:]
		d.records[i] = record{
			HomographCount: b[0],
			Cost:           b[1],
			POS:            uint16(b[2]) | uint16(b[3])<<8,
			CharLength:     b[4],
			SubListOffset:  uint32(b[5]) | uint32(b[6])<<8 | uint32(b[7])<<16,
		}
	}
	return nil
}

// v124 packed double-array cell: 19-bit base in the high bits, 13-bit
// label in the low bits of a little-endian u32. Spec §9 requires this
// be read with explicit mask/shift rather than a compiler bit-field,
// since the exact bit order isn't otherwise specified; this module owns
// both ends of the format (no external V1.24 builder ships with it), so
// this order is the canonical one.
const (
	v124LabelBits = 13
	v124LabelMask = 1<<v124LabelBits - 1
)

func v124Unpack(cell uint32) (base uint32, label uint16) {
	return cell >> v124LabelBits, uint16(cell & v124LabelMask)
}

// v124 record-info primary cell: 11-bit pos | 1-bit sub_flag | 4-bit
// homograph_count | 8-bit length | 8-bit cost, packed low-to-high in
// that order within a little-endian u32.
const (
	v124PosBits        = 11
	v124PosMask        = 1<<v124PosBits - 1
	v124SubFlagShift   = v124PosBits
	v124HomographShift = v124SubFlagShift + 1
	v124HomographMask  = 0xF
	v124LengthShift    = v124HomographShift + 4
	v124LengthMask     = 0xFF
	v124CostShift      = v124LengthShift + 8
)

func (d *Dictionary) loadV124(img *resource.Image) error {
	r := resource.NewReader(d.name, img.Body)

	recordCount, err := r.Uint32()
	if err != nil {
		return err
	}
	subListCount, err := r.Uint32()
	if err != nil {
		return err
	}
	daCount, err := r.Uint32()
	if err != nil {
		return err
	}

	remap, err := r.Uint16Array(65536)
	if err != nil {
		return err
	}
	d.remap = charclass.Table(remap)

	packed, err := r.Uint32Array(int64(daCount))
	if err != nil {
		return err
	}
	d.packed = packed

	subList, err := r.Uint32Array(int64(subListCount))
	if err != nil {
		return err
	}
	d.subList = subList

	d.records = make([]record, 0, recordCount)
	for uint32(len(d.records)) < recordCount {
		cell, err := r.Uint32()
		if err != nil {
			return err
		}
		subFlag := (cell >> v124SubFlagShift) & 1
		rec := record{
			POS:            uint16(cell & v124PosMask),
			HomographCount: uint8((cell >> v124HomographShift) & v124HomographMask),
			CharLength:     uint8((cell >> v124LengthShift) & v124LengthMask),
			Cost:           uint8((cell >> v124CostShift) & 0xFF),
			SubListOffset:  0xFFFFFF,
		}
		if subFlag == 1 {
			off, err := r.Uint32()
			if err != nil {
				return err
			}
			rec.SubListOffset = off & 0xFFFFFF
		}
		d.records = append(d.records, rec)
	}
	return nil
}

func (d *Dictionary) stateBaseLabel(state uint32) (base uint32, label uint16, ok bool) {
	if d.layout == LayoutV125 {
		if int(state) >= len(d.base32) {
			return 0, 0, false
		}
		return d.base32[state], d.label16[state], true
	}
	if int(state) >= len(d.packed) {
		return 0, 0, false
	}
	b, l := v124Unpack(d.packed[state])
	return b, l, true
}
