package cache

import (
	"encoding/binary"
	"escort-route-service/internal/domain"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// keyPrecision rounds coordinates to about a meter before hashing, so
// float noise from clients does not defeat the cache.
const keyPrecision = 1e5

// MatrixKey identifies an ordered location list. Order matters because
// matrix rows follow it.
func MatrixKey(locations []domain.Coordinates) string {
	h := xxhash.New()
	var buf [16]byte
	for _, c := range locations {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(math.Round(c.Lat*keyPrecision))))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(math.Round(c.Lon*keyPrecision))))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("matrix:%d:%016x", len(locations), h.Sum64())
}
