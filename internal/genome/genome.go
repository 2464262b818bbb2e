// Package genome implements the byte-packed genome and its nibble-addressed
// read/write cursor.
package genome

import "github.com/evopond/pond/internal/prng"

// Size is the number of bytes backing a genome (GENOME_SIZE in the spec).
const Size = 512

// Depth is the number of nibbles a genome is viewed as (POND_DEPTH).
const Depth = Size * 2

// Genome is a fixed-size byte array interpreted as a ring of 1024 nibbles,
// low nibble before high nibble within each byte.
type Genome [Size]byte

// Inert returns the canonical all-stopped genome: every nibble is 0xF
// (Stop).
func Inert() Genome {
	var g Genome
	for i := range g {
		g[i] = 0xFF
	}
	return g
}

// Random fills a genome with bytes drawn from the generator, one word per
// byte (so it draws Size random words, not Size/word-size).
func Random(g *prng.Generator) Genome {
	var genome Genome
	for i := range genome {
		genome[i] = byte(g.GenerateInteger())
	}
	return genome
}

// Cursor addresses a single nibble within a Genome.
type Cursor struct {
	Index int // array_pointer, 0..Size-1
	Lower bool
}

// NewCursor returns the cursor at the genome's conventional start: byte 0,
// low nibble.
func NewCursor() Cursor {
	return Cursor{Index: 0, Lower: true}
}

// Advance moves the cursor to the next nibble, wrapping the byte index
// modulo Size when it crosses from the high half back to the low half.
func (c *Cursor) Advance() {
	if !c.Lower {
		c.Index = (c.Index + 1) % Size
	}
	c.Lower = !c.Lower
}

// Retreat is the inverse of Advance.
func (c *Cursor) Retreat() {
	if c.Lower {
		if c.Index == 0 {
			c.Index = Size - 1
		} else {
			c.Index--
		}
	}
	c.Lower = !c.Lower
}

// Get returns the nibble addressed by c.
func (g *Genome) Get(c Cursor) byte {
	if c.Lower {
		return g[c.Index] & 0x0F
	}
	return (g[c.Index] >> 4) & 0x0F
}

// Set overwrites the nibble addressed by c, preserving the other half of
// the byte.
func (g *Genome) Set(c Cursor, value byte) {
	if c.Lower {
		g[c.Index] = (g[c.Index] & 0xF0) | (value & 0x0F)
	} else {
		g[c.Index] = (g[c.Index] & 0x0F) | ((value & 0x0F) << 4)
	}
}
