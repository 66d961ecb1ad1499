package lens_test

import (
	"testing"

	"github.com/on-the-ground/io_ive_go/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string
	Zip  int
}

type person struct {
	Name    string
	Address address
	Tags    []string
	secret  string
}

func TestReadAt_NestedMaps(t *testing.T) {
	root := map[string]any{"foo": map[string]any{"bar": 304, "baz": 7}}

	v, err := lens.ReadAt(root, lens.Path{"foo", "bar"})
	require.NoError(t, err)
	assert.Equal(t, 304, v)

	v, err = lens.ReadAt(root, lens.Path{})
	require.NoError(t, err)
	assert.Equal(t, root, v)
}

func TestReadAt_MissingResolvesToNil(t *testing.T) {
	root := map[string]any{"foo": map[string]any{}}

	for _, path := range []lens.Path{
		{"nope"},
		{"foo", "bar"},
		{"nope", "deeper", "still"},
		{"foo", "list", 3},
	} {
		v, err := lens.ReadAt(root, path)
		require.NoError(t, err, "path %v", path)
		assert.Nil(t, v, "path %v", path)
	}
}

func TestReadAt_InvalidPath(t *testing.T) {
	root := map[string]any{"foo": 1, "list": []any{1, 2}}

	_, err := lens.ReadAt(root, lens.Path{"foo", "bar"})
	assert.ErrorIs(t, err, lens.ErrInvalidPath)

	_, err = lens.ReadAt(root, lens.Path{"list", "first"})
	assert.ErrorIs(t, err, lens.ErrInvalidPath)

	_, err = lens.ReadAt(root, lens.Path{42})
	assert.ErrorIs(t, err, lens.ErrInvalidPath)
}

func TestReadAt_StructsSlicesAndPointers(t *testing.T) {
	p := &person{Name: "kim", Address: address{City: "Seoul", Zip: 4524}, Tags: []string{"a", "b"}}

	v, err := lens.ReadAt(p, lens.Path{"Address", "City"})
	require.NoError(t, err)
	assert.Equal(t, "Seoul", v)

	v, err = lens.ReadAt(p, lens.Path{"Tags", 1})
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = lens.ReadAt(p, lens.Path{"secret"})
	assert.ErrorIs(t, err, lens.ErrInvalidPath)

	v, err = lens.ReadAt(map[int]string{1: "one"}, lens.Path{1})
	require.NoError(t, err)
	assert.Equal(t, "one", v)
}

func TestUpdateAt_PreservesSiblingsAndOriginal(t *testing.T) {
	shared := map[string]any{"deep": true}
	foo := map[string]any{"bar": 304, "baz": 7}
	root := map[string]any{"foo": foo, "other": shared}

	updated, err := lens.UpdateAt(root, lens.Path{"foo", "bar"}, 404)
	require.NoError(t, err)

	out := updated.(map[string]any)
	assert.Equal(t, 404, out["foo"].(map[string]any)["bar"])
	assert.Equal(t, 7, out["foo"].(map[string]any)["baz"])

	// untouched subtrees are shared, not copied
	assert.Equal(t, shared, out["other"])
	out["other"].(map[string]any)["probe"] = 1
	assert.Equal(t, 1, shared["probe"])

	// the original root is untouched
	assert.Equal(t, 304, foo["bar"])
	assert.Equal(t, map[string]any{"bar": 304, "baz": 7}, root["foo"])
}

func TestUpdateAt_CreatesMissingIntermediates(t *testing.T) {
	updated, err := lens.UpdateAt(map[string]any{"keep": 1}, lens.Path{"a", "b", "c"}, "x")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"keep": 1,
		"a":    map[string]any{"b": map[string]any{"c": "x"}},
	}, updated)
}

func TestUpdateAt_EmptyPathReplacesRoot(t *testing.T) {
	updated, err := lens.UpdateAt(map[string]any{"a": 1}, lens.Path{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated)
}

func TestUpdateAt_Slices(t *testing.T) {
	orig := []any{1, 2, 3}

	updated, err := lens.UpdateAt(orig, lens.Path{1}, 20)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 20, 3}, updated)
	assert.Equal(t, []any{1, 2, 3}, orig)

	appended, err := lens.UpdateAt(orig, lens.Path{3}, 4)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 4}, appended)

	_, err = lens.UpdateAt(orig, lens.Path{9}, 4)
	assert.ErrorIs(t, err, lens.ErrInvalidPath)
}

func TestUpdateAt_StructsAndPointers(t *testing.T) {
	p := &person{Name: "kim", Address: address{City: "Seoul", Zip: 4524}, Tags: []string{"a"}}

	updated, err := lens.UpdateAt(p, lens.Path{"Address", "City"}, "Busan")
	require.NoError(t, err)

	np := updated.(*person)
	assert.NotSame(t, p, np)
	assert.Equal(t, "Busan", np.Address.City)
	assert.Equal(t, 4524, np.Address.Zip)
	assert.Equal(t, "Seoul", p.Address.City)

	tagged, err := lens.UpdateAt(*p, lens.Path{"Tags", 0}, "z")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, tagged.(person).Tags)
	assert.Equal(t, []string{"a"}, p.Tags)

	_, err = lens.UpdateAt(p, lens.Path{"Address", "Zip"}, "not a number")
	assert.ErrorIs(t, err, lens.ErrInvalidPath)
}

func TestUpdateAt_AllocatesNilPointers(t *testing.T) {
	type holder struct {
		Addr *address
	}
	orig := holder{}

	read, err := lens.ReadAt(orig, lens.Path{"Addr", "Zip"})
	require.NoError(t, err)
	assert.Nil(t, read)

	updated, err := lens.UpdateAt(orig, lens.Path{"Addr", "Zip"}, 4524)
	require.NoError(t, err)
	require.NotNil(t, updated.(holder).Addr)
	assert.Equal(t, address{Zip: 4524}, *updated.(holder).Addr)
	assert.Nil(t, orig.Addr)

	var nilPerson *person
	named, err := lens.UpdateAt(nilPerson, lens.Path{"Name"}, "kim")
	require.NoError(t, err)
	assert.Equal(t, "kim", named.(*person).Name)
}

func TestUpdateAt_TypedMaps(t *testing.T) {
	type key string
	orig := map[key]int{"a": 1, "b": 2}

	updated, err := lens.UpdateAt(orig, lens.Path{"a"}, 10)
	require.NoError(t, err)
	assert.Equal(t, map[key]int{"a": 10, "b": 2}, updated)
	assert.Equal(t, 1, orig["a"])
}

func TestParsePath(t *testing.T) {
	cases := map[string]lens.Path{
		"":               {},
		"foo":            {"foo"},
		"foo.bar":        {"foo", "bar"},
		"foo[2].baz":     {"foo", 2, "baz"},
		"matrix[0][1]":   {"matrix", 0, 1},
		"[3].name":       {3, "name"},
		"a.b.c[10].d[0]": {"a", "b", "c", 10, "d", 0},
	}
	for in, want := range cases {
		got, err := lens.ParsePath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"foo..bar", "foo[", "foo[x]", "foo[1]bar", "foo[-1]"} {
		_, err := lens.ParsePath(bad)
		assert.ErrorIs(t, err, lens.ErrInvalidPath, bad)
	}
}
