package pond

// Facing is the direction a VM currently interacts in.
type Facing int

const (
	Left Facing = iota
	Right
	Up
	Down
)

// FacingFrom maps a register value's low two bits to a Facing, per spec
// §4.5 Turn: {0,1,2,3} -> {Left,Right,Up,Down}.
func FacingFrom(register byte) Facing {
	return Facing(register % 4)
}
