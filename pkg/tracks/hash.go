package tracks

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash returns a hex SHA-256 of the track's coordinates in order. The name
// and path do not contribute, so a renamed file keeps its cache entries.
func Hash(t *Track) string {
	h := sha256.New()
	var buf [16]byte
	for _, p := range t.Points {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
