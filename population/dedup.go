package population

import "github.com/corvid-labs/alifevm/grid"

// dedupKey captures every field dedup compares: the full OrganismState
// plus delay_cycles, and nothing else — id, child_potential, and
// life_potential are deliberately excluded. Clipboard and storage are
// folded in as strings so the key stays comparable and usable directly
// as a map key.
type dedupKey struct {
	Delay  byte
	IP     grid.Point
	Dir    grid.Dir
	Cursor grid.Point
	AX, BX byte
	Flag   bool
	R      byte
	MP     int

	Clipboard string
	Storage   string
}

func keyFor(ctx *OrganismContext) dedupKey {
	s := ctx.State
	return dedupKey{
		Delay:     ctx.DelayCycles,
		IP:        s.IP,
		Dir:       s.Dir,
		Cursor:    s.Cursor,
		AX:        s.AX,
		BX:        s.BX,
		Flag:      s.Flag,
		R:         s.R,
		MP:        s.MP,
		Clipboard: string(s.Clipboard),
		Storage:   string(s.Storage),
	}
}

// Dedup removes every organism whose (delay_cycles, OrganismState)
// matches one seen earlier in iteration order; the first-encountered
// representative of each distinct state survives. Running it twice in
// a row is equivalent to running it once: the second pass finds no
// duplicates because the first already collapsed them.
func (p *Population) Dedup() {
	seen := make(map[dedupKey]bool, len(p.slots))
	var remove []uint64

	for _, ctx := range p.slots {
		k := keyFor(ctx)
		if seen[k] {
			remove = append(remove, ctx.ID)
			continue
		}
		seen[k] = true
	}

	for _, id := range remove {
		p.Remove(id)
	}
}
