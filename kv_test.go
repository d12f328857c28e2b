package minipb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dogtopus/minipb"
)

func TestCompileKVAssignsSequentialTags(t *testing.T) {
	schema, err := minipb.CompileKV([]minipb.KVField{
		minipb.Scalar("name", "*U"),
		minipb.Scalar("id", "*t"),
		minipb.Scalar("nick", "U"),
	})
	require.NoError(t, err)
	fields := schema.Fields()
	require.Len(t, fields, 3)
	require.Equal(t, "name", fields[0].Name)
	require.Equal(t, int32(1), fields[0].Tag)
	require.True(t, fields[0].Required)
	require.Equal(t, "id", fields[1].Name)
	require.Equal(t, int32(2), fields[1].Tag)
	require.Equal(t, "nick", fields[2].Name)
	require.False(t, fields[2].Required)
}

func TestCompileKVNestedMessage(t *testing.T) {
	inner, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("x", "*U")})
	require.NoError(t, err)

	schema, err := minipb.CompileKV([]minipb.KVField{
		minipb.Scalar("name", "*U"),
		minipb.Nested("children", inner),
	})
	require.NoError(t, err)
	f := schema.Fields()[1]
	require.NotNil(t, f.Nested)
	require.False(t, f.Repeated)
}

func TestCompileKVNestedWithRepeatedPrefix(t *testing.T) {
	inner, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("x", "*U")})
	require.NoError(t, err)

	for _, prefix := range []string{"+[", "#[", "*+[", "+*["} {
		schema, err := minipb.CompileKV([]minipb.KVField{
			minipb.NestedWithPrefix("children", prefix, inner),
		})
		require.NoError(t, err, "prefix %q", prefix)
		f := schema.Fields()[0]
		require.True(t, f.Repeated, "prefix %q", prefix)
		require.False(t, f.Packed, "nested messages are never wire-packed, prefix %q", prefix)
	}
}

func TestCompileKVNestedRequiredPrefix(t *testing.T) {
	inner, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("x", "*U")})
	require.NoError(t, err)

	schema, err := minipb.CompileKV([]minipb.KVField{
		minipb.NestedWithPrefix("child", "*[", inner),
	})
	require.NoError(t, err)
	require.True(t, schema.Fields()[0].Required)
}

func TestCompileKVRejectsBracketInScalarCode(t *testing.T) {
	_, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("bad", "*U[")})
	require.Error(t, err)
}

func TestCompileKVRejectsNumericSuffixInScalarCode(t *testing.T) {
	_, err := minipb.CompileKV([]minipb.KVField{minipb.Scalar("bad", "U3")})
	require.Error(t, err)
}

func TestCompileKVRejectsEmptyNestedSchema(t *testing.T) {
	_, err := minipb.CompileKV([]minipb.KVField{minipb.Nested("bad", nil)})
	require.Error(t, err)
}

func TestCompileKVRejectsDuplicateNames(t *testing.T) {
	_, err := minipb.CompileKV([]minipb.KVField{
		minipb.Scalar("dup", "U"),
		minipb.Scalar("dup", "t"),
	})
	require.Error(t, err)
}

func TestCompileKVMatchesFormatStringForEquivalentSchema(t *testing.T) {
	byFormat, err := minipb.CompileFormat("*U*t")
	require.NoError(t, err)
	byKV, err := minipb.CompileKV([]minipb.KVField{
		minipb.Scalar("f1", "*U"),
		minipb.Scalar("f2", "*t"),
	})
	require.NoError(t, err)

	payload := []interface{}{"hi", int64(-7)}
	named := map[string]interface{}{"f1": "hi", "f2": int64(-7)}

	a, err := byFormat.Encode(payload)
	require.NoError(t, err)
	b, err := byKV.Encode(named)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
