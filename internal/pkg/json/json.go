//go:build amd64 || arm64

// Package json encodes command reports with sonic where it has a JIT.
package json

import (
	"io"

	"github.com/bytedance/sonic/decoder"
	"github.com/bytedance/sonic/encoder"
)

const Library = "github.com/bytedance/sonic"

type Encoder struct {
	enc *encoder.StreamEncoder
}

// NewEncoder returns an encoder writing one value per line to w. With
// pretty set, values are indented by two spaces.
func NewEncoder(w io.Writer, pretty bool) *Encoder {
	enc := encoder.NewStreamEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	return &Encoder{enc: enc}
}

func (e *Encoder) Encode(v any) error {
	return e.enc.Encode(v)
}

type Decoder struct {
	dec *decoder.StreamDecoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: decoder.NewStreamDecoder(r)}
}

func (d *Decoder) Decode(v any) error {
	return d.dec.Decode(v)
}
