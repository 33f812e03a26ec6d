package viz

import "strings"

// Braille patterns pack 2x4 dots per cell, unicode offset 0x2800:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotMask = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille-cell canvas with a world-coordinate window, used to
// draw the vehicle trajectory. World y grows upward; rows grow downward.
type Canvas struct {
	width, height          int // cells
	grid                   [][]rune
	minX, maxX, minY, maxY float64
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		grid:   make([][]rune, height),
		minX:   -1,
		maxX:   1,
		minY:   -1,
		maxY:   1,
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, width)
	}
	c.Clear()
	return c
}

// SetWindow fixes the world rectangle mapped onto the canvas. Degenerate
// spans are widened so the projection stays defined.
func (c *Canvas) SetWindow(minX, maxX, minY, maxY float64) {
	if maxX-minX < 1e-9 {
		minX, maxX = minX-1, maxX+1
	}
	if maxY-minY < 1e-9 {
		minY, maxY = minY-1, maxY+1
	}
	c.minX, c.maxX, c.minY, c.maxY = minX, maxX, minY, maxY
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// Mark plots one world point; points outside the window are ignored.
func (c *Canvas) Mark(x, y float64) {
	px := int(float64(c.width*2-1) * (x - c.minX) / (c.maxX - c.minX))
	py := int(float64(c.height*4-1) * (c.maxY - y) / (c.maxY - c.minY))

	if px < 0 || py < 0 {
		return
	}
	col, row := px/2, py/4
	if col >= c.width || row >= c.height {
		return
	}

	c.grid[row][col] |= dotMask[py%4][px%2]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
