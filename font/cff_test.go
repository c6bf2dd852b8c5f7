package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubrBias(t *testing.T) {
	assert.Equal(t, 107, subrBias(5))
	assert.Equal(t, 107, subrBias(1239))
	assert.Equal(t, 1131, subrBias(1240))
	assert.Equal(t, 1131, subrBias(33899))
	assert.Equal(t, 32768, subrBias(33900))
}

func TestCffReadOperandShortInt(t *testing.T) {
	// 32..246 encode (b0 - 139) directly in one byte.
	v, n := cffReadOperand([]byte{140})
	assert.Equal(t, f32(1), v)
	assert.Equal(t, 1, n)

	v, n = cffReadOperand([]byte{139})
	assert.Equal(t, f32(0), v)
	assert.Equal(t, 1, n)
}

func TestCffReadOperandTwoByteForms(t *testing.T) {
	// 247..250: (b0-247)*256 + b1 + 108
	v, n := cffReadOperand([]byte{247, 0})
	assert.Equal(t, f32(108), v)
	assert.Equal(t, 2, n)

	// 251..254: -(b0-251)*256 - b1 - 108
	v, n = cffReadOperand([]byte{251, 0})
	assert.Equal(t, f32(-108), v)
	assert.Equal(t, 2, n)
}

func TestCffReadOperandShortInt16(t *testing.T) {
	// b0==28: 16-bit signed int follows
	v, n := cffReadOperand([]byte{28, 0x01, 0x00})
	assert.Equal(t, f32(256), v)
	assert.Equal(t, 3, n)
}

func TestCffReadOperandFixed(t *testing.T) {
	// b0==255: 16.16 fixed point follows
	v, n := cffReadOperand([]byte{255, 0x00, 0x02, 0x80, 0x00})
	assert.InDelta(t, 2.5, float64(v), 1e-6)
	assert.Equal(t, 5, n)
}

func TestParseCFFDictIntOperator(t *testing.T) {
	// CharStrings operator (17), operand 139 (encodes as 0) before it.
	d := parseCFFDict([]byte{139, 17})
	v, ok := d.intOp(17)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestCffInterpRunTriangle(t *testing.T) {
	// rmoveto(100,100); rlineto(50,0); rlineto(-50,50); endchar
	code := []byte{239, 239, 21, 189, 139, 5, 89, 189, 5, 14}
	interp := &cffInterp{}
	outline, err := interp.run(code)
	require.NoError(t, err)
	require.Len(t, outline.Commands, 4)

	assert.Equal(t, CmdMoveTo, outline.Commands[0].Kind)
	assert.Equal(t, f32(100), outline.Commands[0].X)
	assert.Equal(t, f32(100), outline.Commands[0].Y)

	assert.Equal(t, CmdLineTo, outline.Commands[1].Kind)
	assert.Equal(t, f32(150), outline.Commands[1].X)
	assert.Equal(t, f32(100), outline.Commands[1].Y)

	assert.Equal(t, CmdLineTo, outline.Commands[2].Kind)
	assert.Equal(t, f32(100), outline.Commands[2].X)
	assert.Equal(t, f32(150), outline.Commands[2].Y)

	assert.Equal(t, CmdClosePath, outline.Commands[3].Kind)
}

func TestTakeWidthStripsLeadingOperand(t *testing.T) {
	c := &cffInterp{stack: []f32{1, 2, 3}}
	c.takeWidth(0) // wantParity 0, len=3 is odd -> strip
	assert.Equal(t, []f32{2, 3}, c.stack)
	assert.True(t, c.widthParsed)

	c2 := &cffInterp{stack: []f32{1, 2}}
	c2.takeWidth(0) // len=2 already matches parity -> no strip
	assert.Equal(t, []f32{1, 2}, c2.stack)
}
