package dict

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/resource"
)

// AppInfoDict is the application-info dictionary (spec §3): a parallel
// array of variable-length byte payloads indexed by the same record id
// as its companion word Dictionary.
type AppInfoDict struct {
	offsets []uint32 // offsets[recordID] .. offsets[recordID+1] delimit the payload
	pool    []byte
	img     *resource.Image
}

// LoadAppInfo opens a `WRD APP V1.23-` resource.
//
// Wire layout (little-endian, after the 64-byte header):
//
//	u32 recordCount
//	u32 offsets[recordCount+1]
//	u8  pool[offsets[recordCount]]
func LoadAppInfo(path, name string, log zerolog.Logger) (*AppInfoDict, error) {
	img, err := resource.Open(name, path, []resource.Tag{resource.TagAppInfoDict}, log)
	if err != nil {
		return nil, err
	}

	r := resource.NewReader(name, img.Body)
	recordCount, err := r.Uint32()
	if err != nil {
		img.Close()
		return nil, err
	}
	offsets, err := r.Uint32Array(int64(recordCount) + 1)
	if err != nil {
		img.Close()
		return nil, err
	}
	poolLen := int64(0)
	if len(offsets) > 0 {
		poolLen = int64(offsets[len(offsets)-1])
	}
	pool, err := r.Bytes(poolLen)
	if err != nil {
		img.Close()
		return nil, err
	}

	return &AppInfoDict{offsets: offsets, pool: pool, img: img}, nil
}

// Close unmaps the underlying resource.
func (a *AppInfoDict) Close() error { return a.img.Close() }

// Payload returns the application-specific byte payload for recordID.
func (a *AppInfoDict) Payload(recordID uint32) []byte {
	if int(recordID)+1 >= len(a.offsets) {
		return nil
	}
	start := a.offsets[recordID]
	end := a.offsets[recordID+1]
	if end < start || int(end) > len(a.pool) {
		return nil
	}
	return a.pool[start:end]
}
