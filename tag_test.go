package minipb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dogtopus/minipb"
)

func TestTagRoundTrip(t *testing.T) {
	cases := []struct {
		field int32
		wt    minipb.WireType
	}{
		{1, minipb.WireVarint},
		{2, minipb.WireFixed64},
		{15, minipb.WireLengthDelimited},
		{16, minipb.WireFixed32},
		{1<<29 - 1, minipb.WireVarint},
	}
	for _, c := range cases {
		w := minipb.NewWriter(0)
		require.NoError(t, w.EncodeTag(c.field, c.wt))
		r := minipb.NewBuffer(w.Bytes())
		gotField, gotWT, err := r.DecodeTag()
		require.NoError(t, err)
		require.Equal(t, c.field, gotField)
		require.Equal(t, c.wt, gotWT)
	}
}

func TestTagRejectsGroupWireTypes(t *testing.T) {
	for _, wt := range []int{3, 4} {
		w := minipb.NewWriter(0)
		require.NoError(t, w.EncodeVarint(uint64(1)<<3|uint64(wt)))
		r := minipb.NewBuffer(w.Bytes())
		_, _, err := r.DecodeTag()
		var ce *minipb.CodecError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, minipb.WireTypeMismatch, ce.Kind)
	}
}

func TestTagRejectsOutOfRangeFieldNumber(t *testing.T) {
	w := minipb.NewWriter(0)
	err := w.EncodeTag(0, minipb.WireVarint)
	require.Error(t, err)

	err = w.EncodeTag(1<<29, minipb.WireVarint)
	require.Error(t, err)
}

func TestS1FormatStringHelloWorld(t *testing.T) {
	schema, err := minipb.CompileFormat("U")
	require.NoError(t, err)
	data, err := schema.Encode([]interface{}{"Hello world!"})
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "0a0c48656c6c6f20776f726c6421"), data)
}

func TestS2KVEquivalentToFormatString(t *testing.T) {
	schema, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("msg", "U")})
	require.NoError(t, err)
	data, err := schema.Encode(map[string]interface{}{"msg": "Hello world!"})
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "0a0c48656c6c6f20776f726c6421"), data)
}
