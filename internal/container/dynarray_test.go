package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/container"
)

func TestDynArrayAppendAndAt(t *testing.T) {
	a := container.NewDynArray[int](1)
	a.Append(10)
	a.Append(20)
	a.Append(30)
	require.Equal(t, 3, a.Len())

	v, ok := a.At(1)
	require.True(t, ok)
	assert.Equal(t, 20, v)

	_, ok = a.At(3)
	assert.False(t, ok)
}

func TestDynArrayInsertShiftsTail(t *testing.T) {
	a := container.NewDynArray[string](2)
	a.Append("a")
	a.Append("c")
	require.True(t, a.Insert(1, "b"))
	require.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"a", "b", "c"}, a.Slice())

	require.True(t, a.Insert(a.Len(), "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, a.Slice())

	assert.False(t, a.Insert(-1, "x"))
	assert.False(t, a.Insert(a.Len()+1, "x"))
}

func TestDynArrayDeleteAtCompactsTail(t *testing.T) {
	a := container.NewDynArray[int](4)
	a.Append(1)
	a.Append(2)
	a.Append(3)
	require.True(t, a.DeleteAt(1))
	assert.Equal(t, []int{1, 3}, a.Slice())
	assert.False(t, a.DeleteAt(5))
}

func TestDynArrayIndexOf(t *testing.T) {
	a := container.NewDynArray[int](4)
	a.Append(5)
	a.Append(7)
	a.Append(9)
	assert.Equal(t, 1, a.IndexOf(func(v int) bool { return v == 7 }))
	assert.Equal(t, -1, a.IndexOf(func(v int) bool { return v == 42 }))
}

func TestDynArrayReset(t *testing.T) {
	a := container.NewDynArray[int](4)
	a.Append(1)
	a.Reset(true)
	assert.Equal(t, 0, a.Len())
	a.Append(2)
	assert.Equal(t, []int{2}, a.Slice())
}
