package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkCodeAndLinesStayInLockstep(t *testing.T) {
	c := NewChunk()
	c.Write(byte(OpConst), 1)
	idx := c.AddConst(VNum(1.2))
	c.Write(byte(idx), 1)
	c.Write(byte(OpReturn), 2)

	assert.Len(t, c.lines, len(c.code))
	assert.Equal(t, []int{1, 1, 2}, c.lines)
}

func TestAddConstReturnsSequentialIndices(t *testing.T) {
	c := NewChunk()
	assert.Equal(t, 0, c.AddConst(VNum(1)))
	assert.Equal(t, 1, c.AddConst(VNum(2)))
	assert.Equal(t, 2, c.AddConst(VBool(true)))
	assert.Len(t, c.consts, 3)
}

func TestDisassembleDoesNotPanicOnConstAndNullaryOps(t *testing.T) {
	c := NewChunk()
	idx := c.AddConst(VNum(5))
	c.Write(byte(OpConst), 1)
	c.Write(byte(idx), 1)
	c.Write(byte(OpNeg), 1)
	c.Write(byte(OpReturn), 1)

	out := c.Disassemble("test")
	assert.Contains(t, out, "OpConst")
	assert.Contains(t, out, "OpNeg")
	assert.Contains(t, out, "OpReturn")
}
