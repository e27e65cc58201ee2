package bytecode

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageMagic identifies a serialized petlik program.
const ImageMagic = "PTLK"

// ErrBadImage is wrapped by every image decoding failure.
var ErrBadImage = errors.New("bad program image")

// image is the on-disk envelope around a Program.
type image struct {
	Magic   string   `cbor:"1,keyasint"`
	Program *Program `cbor:"2,keyasint"`
}

// Canonical mode keeps images byte-identical for identical programs.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeImage serializes a program to CBOR bytes.
func EncodeImage(p *Program) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("bytecode: encode image: %w", err)
	}
	return cborEncMode.Marshal(&image{Magic: ImageMagic, Program: p})
}

// DecodeImage deserializes a program from CBOR bytes and validates it.
func DecodeImage(data []byte) (*Program, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if img.Magic != ImageMagic {
		return nil, fmt.Errorf("%w: magic %q, expected %q", ErrBadImage, img.Magic, ImageMagic)
	}
	if img.Program == nil {
		return nil, fmt.Errorf("%w: no program", ErrBadImage)
	}
	if img.Program.Version > FormatVersion {
		return nil, fmt.Errorf("%w: version %d is newer than supported version %d",
			ErrBadImage, img.Program.Version, FormatVersion)
	}
	if err := img.Program.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return img.Program, nil
}
