package replay

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Blob serializes the recorded state. Values are reduced modulo 2^16.
func (r *Recorder) Blob() []byte {
	var blob []byte

	for _, id := range r.order {
		blob = append(blob, byte(id))
		blob = binary.LittleEndian.AppendUint32(blob, uint32(r.environment[id]))
	}

	blob = append(blob, byte(flagEndOfEnvironment))

	for _, p := range r.preconditions {
		blob = append(blob, byte(p.flag))
		blob = binary.LittleEndian.AppendUint32(blob, uint32(len(p.label)))
		blob = append(blob, p.label...)
		blob = binary.LittleEndian.AppendUint32(blob, uint32(len(p.values)))

		for _, value := range p.values {
			blob = binary.LittleEndian.AppendUint16(blob, utils.ToShort(value))
		}
	}

	return append(blob, byte(flagEndOfPreconditions))
}

// Encode returns the blob as a base64 string.
func (r *Recorder) Encode() string {
	return base64.StdEncoding.EncodeToString(r.Blob())
}

// ReplayMessage returns the line appended to every failure message.
func (r *Recorder) ReplayMessage() string {
	return fmt.Sprintf("String to set up this test in complx: %s", r.Encode())
}
