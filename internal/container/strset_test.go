package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morphgo/morphgo/internal/container"
)

func TestStringSetAddKeepsSortedOrder(t *testing.T) {
	set := container.NewStringSet()
	assert.True(t, set.Add("banana"))
	assert.True(t, set.Add("apple"))
	assert.True(t, set.Add("cherry"))
	assert.Equal(t, []string{"apple", "banana", "cherry"}, set.Items())
}

func TestStringSetAddPrefixIsAlreadyPresent(t *testing.T) {
	set := container.NewStringSet()
	assert.True(t, set.Add("ab"))
	// "a" is a prefix of the first len("a") bytes of "ab", so it is treated
	// as already present under the asymmetric comparison rule.
	assert.False(t, set.Add("a"))
	assert.Equal(t, 1, set.Len())
}

func TestStringSetJoin(t *testing.T) {
	set := container.NewStringSet()
	set.Add("one")
	set.Add("two")
	assert.Equal(t, "one\ntwo", set.Join("\n", false))
	assert.Equal(t, "one\ntwo\n", set.Join("\n", true))
}
