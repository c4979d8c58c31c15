package progression

import (
	"math/rand/v2"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
)

const (
	// ChestChance is the probability that a mystery chest appears.
	ChestChance = 0.2

	// ChestMinXP and ChestMaxXP bound the chest reward, inclusive.
	ChestMinXP = 10
	ChestMaxXP = 30
)

// Chest rolls the mystery chest. It draws from an injected source so tests
// and replays are deterministic. A Chest is not safe for concurrent use.
type Chest struct {
	rng    *rand.Rand
	chance float64
}

// NewChest creates a Chest drawing from src.
func NewChest(src rand.Source) *Chest {
	return &Chest{rng: rand.New(src), chance: ChestChance}
}

// NewSeededChest creates a Chest from a fixed seed.
func NewSeededChest(seed uint64) *Chest {
	return NewChest(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Spawn reports whether a chest appears this time.
func (c *Chest) Spawn() bool {
	return c.rng.Float64() < c.chance
}

// Roll draws the chest reward.
func (c *Chest) Roll() int {
	return ChestMinXP + c.rng.IntN(ChestMaxXP-ChestMinXP+1)
}

// ApplyBonus credits out-of-band XP. It skips the attempt pipeline: no
// power-up, no level-up event, no badges, no stats.
func (e *Engine) ApplyBonus(p profile.Profile, c catalog.Catalog, amount int) Result {
	next := p.Clone()
	amount = max(amount, 0)
	next.XP += amount
	next.WeeklyProgress += amount
	return Result{
		Profile: next,
		Catalog: c.Clone(),
		Events:  []Event{{Kind: EventBonus, Amount: amount}},
		FinalXP: amount,
	}
}
