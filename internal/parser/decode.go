package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Decoding error modes accepted by WithDecodeErrors.
const (
	DecodeStrict  = "strict"
	DecodeReplace = "replace"
)

// decoder turns the raw bytes of an unescaped field into its final value.
type decoder func(raw []byte) (any, error)

func keepBytes(raw []byte) (any, error) { return raw, nil }

func rawString(raw []byte) (any, error) { return string(raw), nil }

// newDecoder resolves the decoding options. An empty name keeps the bytes as
// a Go string without any transformation.
func newDecoder(name, mode string, asBytes bool) (decoder, error) {
	switch mode {
	case "", DecodeStrict, DecodeReplace:
	default:
		return nil, fmt.Errorf("unknown decode error mode %q", mode)
	}
	if asBytes || strings.EqualFold(name, "bytes") {
		return keepBytes, nil
	}
	if name == "" {
		return rawString, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	canonical, _ := ianaindex.IANA.Name(enc)
	strictUTF8 := canonical == "UTF-8" && mode != DecodeReplace

	return func(raw []byte) (any, error) {
		if strictUTF8 {
			if !utf8.Valid(raw) {
				return nil, fmt.Errorf("invalid %s byte sequence %q", canonical, raw)
			}
			return string(raw), nil
		}
		return decodeWith(enc, raw)
	}, nil
}

func decodeWith(enc encoding.Encoding, raw []byte) (any, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}
