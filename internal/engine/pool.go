package engine

import "math/rand"

// Resolve decides which hero a finishing turn commits.
//
// A clicked hero wins if it is still unselected in the pool. Without a
// usable click, a select turn falls back to a uniformly random
// unselected hero (nil once the pool is exhausted) and a ban turn
// resolves to nil, which the caller records as a skipped slot.
func Resolve(pool []Hero, clickedID *string, phase Phase, rng *rand.Rand) *Hero {
	if clickedID != nil {
		if h := findUnselected(pool, *clickedID); h != nil {
			return h
		}
		// Clicked hero was taken out from under the team; a select
		// turn still deserves a hero.
	}
	if phase == PhaseSelect {
		return randomUnselected(pool, rng)
	}
	return nil
}

func findUnselected(pool []Hero, id string) *Hero {
	for i := range pool {
		if pool[i].ID != nil && *pool[i].ID == id && !pool[i].Selected {
			return &pool[i]
		}
	}
	return nil
}

func randomUnselected(pool []Hero, rng *rand.Rand) *Hero {
	candidates := make([]int, 0, len(pool))
	for i := range pool {
		if pool[i].ID != nil && !pool[i].Selected {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return &pool[candidates[rng.Intn(len(candidates))]]
}

// MarkSelected consumes hero in the pool. Marking an already-selected
// hero again is a no-op, so replaying the same resolution is safe.
func MarkSelected(pool []Hero, hero *Hero) {
	if hero == nil || hero.ID == nil {
		return
	}
	for i := range pool {
		if pool[i].ID != nil && *pool[i].ID == *hero.ID {
			pool[i].Selected = true
		}
	}
}

// FillFirstEmptySlot writes hero into the first unconsumed slot of a
// team's ban/pick list, left to right. A nil hero records a skipped
// slot. Returns false when every slot is already consumed.
func FillFirstEmptySlot(slots []Hero, hero *Hero) bool {
	for i := range slots {
		if slots[i].Selected {
			continue
		}
		if hero == nil {
			slots[i] = SkippedSlot()
		} else {
			slots[i] = Hero{ID: hero.ID, Name: hero.Name, Selected: true}
		}
		return true
	}
	return false
}

// UnselectedCount reports how many heroes remain available in the pool.
func UnselectedCount(pool []Hero) int {
	n := 0
	for i := range pool {
		if pool[i].ID != nil && !pool[i].Selected {
			n++
		}
	}
	return n
}
