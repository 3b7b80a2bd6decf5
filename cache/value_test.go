package cache

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_PreservesLiteralsAndOrder(t *testing.T) {
	v, err := ParseValue([]byte(` {"b": 1, "a": [true, null, "x", 1.50, -2e3]} `))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, "b", v.Members()[0].Key)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,"x",1.50,-2e3]}`, string(out))

	canon, err := v.Canonical()
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null,"x",1.50,-2e3],"b":1}`, string(canon))
}

func TestParseValue_Errors(t *testing.T) {
	for _, in := range []string{"", "{", `{"a":}`, "1 2", `[1,]`, "nul"} {
		_, err := ParseValue([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseValue_DuplicateKeyKeepsLast(t *testing.T) {
	v, err := ParseValue([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, string(out))
}

func largeObject(n int) []byte {
	var b strings.Builder
	b.WriteByte('{')
	for i := range n {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `"k%d":%d`, i, i)
	}
	// repeat the first key; it keeps its position with the new value
	fmt.Fprintf(&b, `,"k0":%d}`, -1)
	return []byte(b.String())
}

func TestParseValue_LargeObject(t *testing.T) {
	const n = 100_000
	v, err := ParseValue(largeObject(n))
	require.NoError(t, err)

	require.Equal(t, n, v.Len())
	members := v.Members()
	assert.Equal(t, "k0", members[0].Key)
	f, ok := members[0].Value.AsFloat()
	require.True(t, ok)
	assert.Equal(t, -1.0, f)
	assert.Equal(t, fmt.Sprintf("k%d", n-1), members[n-1].Key)
}

func TestObject_DuplicateKeysInLargeObject(t *testing.T) {
	const n = 50_000
	members := make([]Member, 0, 2*n)
	for i := range n {
		members = append(members, Member{Key: fmt.Sprintf("k%d", i), Value: Number(0)})
	}
	for i := range n {
		members = append(members, Member{Key: fmt.Sprintf("k%d", i), Value: Number(1)})
	}

	v := Object(members...)
	require.Equal(t, n, v.Len())
	for i, m := range v.Members() {
		f, _ := m.Value.AsFloat()
		if m.Key != fmt.Sprintf("k%d", i) || f != 1 {
			t.Fatalf("member %d = %s:%v", i, m.Key, f)
		}
	}
}

func BenchmarkParseValue_LargeObject(b *testing.B) {
	data := largeObject(10_000)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := ParseValue(data); err != nil {
			b.Fatal(err)
		}
	}
}

func TestValueOf(t *testing.T) {
	v, err := ValueOf(map[string]any{
		"name":  "Al",
		"age":   42,
		"tags":  []any{"a", 1.5, nil, false},
		"inner": map[string]any{"z": int64(1)},
	})
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"age":42,"inner":{"z":1},"name":"Al","tags":["a",1.5,null,false]}`, string(out))
}

func TestValueOf_Struct(t *testing.T) {
	type profile struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	v, err := ValueOf(profile{Name: "Al", Age: 3})
	require.NoError(t, err)

	name, ok := v.Get("name")
	require.True(t, ok)
	s, ok := name.AsString()
	assert.True(t, ok)
	assert.Equal(t, "Al", s)

	age, _ := v.Get("age")
	f, ok := age.AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)
}

func TestValueOf_Unencodable(t *testing.T) {
	_, err := ValueOf(make(chan int))
	assert.ErrorIs(t, err, ErrEncode)
}

func TestValue_NonFiniteNumber(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Array(Number(f)).MarshalJSON()
		assert.ErrorIs(t, err, ErrEncode)

		_, err = Number(f).Canonical()
		assert.ErrorIs(t, err, ErrEncode)
	}
}

func TestValue_InvalidLiteral(t *testing.T) {
	for _, lit := range []string{"", "abc", `"1"`, "1.", "--1", "0x10"} {
		_, err := NumberLiteral(lit).MarshalJSON()
		assert.ErrorIs(t, err, ErrEncode, "literal %q", lit)
	}
}

func TestValue_Interface(t *testing.T) {
	v := Object(
		Member{Key: "n", Value: Int(7)},
		Member{Key: "list", Value: Array(Bool(true), Null())},
	)

	got := v.Interface().(map[string]any)
	assert.Equal(t, json.Number("7"), got["n"])
	assert.Equal(t, []any{true, nil}, got["list"])
}

func TestValue_JSONField(t *testing.T) {
	type wrapper struct {
		Content Value `json:"content"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"content":{"k":[1,2]}}`), &w))
	assert.Equal(t, KindObject, w.Content.Kind())

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, `{"content":{"k":[1,2]}}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"content":null}`), &w))
	assert.True(t, w.Content.IsNull())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
