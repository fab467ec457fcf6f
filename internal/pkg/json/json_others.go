//go:build !amd64 && !arm64

package json

import (
	"io"

	"github.com/goccy/go-json"
)

const Library = "github.com/goccy/go-json"

type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer, pretty bool) *Encoder {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	return &Encoder{enc: enc}
}

func (e *Encoder) Encode(v any) error {
	return e.enc.Encode(v)
}

type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

func (d *Decoder) Decode(v any) error {
	return d.dec.Decode(v)
}
