package kmer

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestCursorSingleBase(t *testing.T) {
	var c Cursor
	assert.NoError(t, c.Set('A'))
	expect.EQ(t, c.Current(), A)
	expect.EQ(t, c.Variants(), 1)
	expect.False(t, c.Advance()) // only one code: immediately rolls over
	expect.EQ(t, c.Current(), A)
}

func TestCursorDegenerateRollover(t *testing.T) {
	var c Cursor
	assert.NoError(t, c.Set('N')) // {A,C,G,T}
	expect.EQ(t, c.Variants(), 4)
	expect.EQ(t, c.Current(), A)

	expect.True(t, c.Advance())
	expect.EQ(t, c.Current(), C)
	expect.True(t, c.Advance())
	expect.EQ(t, c.Current(), G)
	expect.True(t, c.Advance())
	expect.EQ(t, c.Current(), T)
	expect.False(t, c.Advance()) // rolled over
	expect.EQ(t, c.Current(), A)
}

func TestCursorRetreatSeedsOneBeforeStart(t *testing.T) {
	var c Cursor
	assert.NoError(t, c.Set('N'))
	c.Retreat()
	expect.True(t, c.Advance()) // first Advance after Retreat lands back on variant 0
	expect.EQ(t, c.Current(), A)
}

func TestCursorSetInvalidSymbol(t *testing.T) {
	var c Cursor
	err := c.Set('Z')
	assert.NotNil(t, err)
	expect.True(t, isInvalidSymbol(err))
}
