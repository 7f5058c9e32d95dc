package daemon

import (
	"encoding/base64"
	"unicode/utf8"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/types/known/structpb"
)

// rawKey marks a text value carried as base64 because it is not valid UTF-8.
const rawKey = "base64"

// Text encodes s as a message value. Protobuf strings must be UTF-8, so any
// other byte string travels base64-encoded inside a one-field struct.
func Text(s string) *structpb.Value {
	if utf8.ValidString(s) {
		return structpb.NewStringValue(s)
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		rawKey: structpb.NewStringValue(base64.StdEncoding.EncodeToString([]byte(s))),
	}})
}

// TextOf decodes a value written by Text. A missing value decodes to "".
func TextOf(v *structpb.Value) (string, error) {
	raw, ok := v.GetStructValue().GetFields()[rawKey]
	if !ok {
		return v.GetStringValue(), nil
	}
	b, err := base64.StdEncoding.DecodeString(raw.GetStringValue())
	if err != nil {
		return "", zerr.Wrap(domain.ErrMalformedMessage, "invalid base64 text: "+err.Error())
	}
	return string(b), nil
}

// TextList encodes ss with Text.
func TextList(ss []string) *structpb.Value {
	values := make([]*structpb.Value, len(ss))
	for i, s := range ss {
		values[i] = Text(s)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// TextListOf decodes a value written by TextList.
func TextListOf(v *structpb.Value) ([]string, error) {
	values := v.GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, item := range values {
		s, err := TextOf(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// TextMap encodes m as a list of [key, value] pairs so keys are not limited to
// UTF-8 either.
func TextMap(m map[string]string) *structpb.Value {
	pairs := make([]*structpb.Value, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, TextList([]string{k, v}))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: pairs})
}

// TextMapOf decodes a value written by TextMap.
func TextMapOf(v *structpb.Value) (map[string]string, error) {
	pairs := v.GetListValue().GetValues()
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kv, err := TextListOf(pair)
		if err != nil {
			return nil, err
		}
		if len(kv) != 2 {
			return nil, zerr.With(zerr.Wrap(domain.ErrMalformedMessage, "text pair must hold a key and a value"), "len", len(kv))
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}
