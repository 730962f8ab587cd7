package syntax

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborMode uses canonical encoding so equal trees produce equal bytes.
var cborMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("syntax: cbor enc mode: %v", err))
	}
	cborMode = em
}

// FprintCBOR writes the AST to w as a single CBOR data item with the same
// shape as the JSON dump.
func FprintCBOR(w io.Writer, node Node) error {
	data, err := cborMode.Marshal(toTree(node))
	if err != nil {
		return fmt.Errorf("encode ast: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeCBOR decodes a dump written by FprintCBOR into generic maps.
func DecodeCBOR(data []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	return m, nil
}
