package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/user/career-survival/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalogData []byte

// Chained event slots, in the priority order they are checked
const (
	ChainedStamina = "stamina"
	ChainedSanity  = "sanity"
	ChainedMoney   = "money"
)

type chainedEvents struct {
	Stamina types.Event `yaml:"stamina"`
	Sanity  types.Event `yaml:"sanity"`
	Money   types.Event `yaml:"money"`
}

type catalogFile struct {
	Levels     []types.Level    `yaml:"levels"`
	Buffs      []types.Buff     `yaml:"buffs"`
	Industries []types.Industry `yaml:"industries"`
	Events     []types.Event    `yaml:"events"`
	Routines   []types.Event    `yaml:"routines"`
	Chained    chainedEvents    `yaml:"chained"`
	Scripted   []types.Event    `yaml:"scripted"`
	Shop       []types.ShopItem `yaml:"shop"`
}

// Catalog is the immutable content of the game: industries, levels, buffs,
// events and shop items
type Catalog struct {
	data     catalogFile
	buffs    map[string]types.Buff
	scripted map[string]types.Event
	shop     map[string]types.ShopItem
}

// DefaultCatalog parses the catalog embedded in the binary
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogData)
}

// LoadCatalogFile loads a catalog from a YAML file
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and indexes a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		data:     file,
		buffs:    make(map[string]types.Buff, len(file.Buffs)),
		scripted: make(map[string]types.Event, len(file.Scripted)),
		shop:     make(map[string]types.ShopItem, len(file.Shop)),
	}
	for _, b := range file.Buffs {
		c.buffs[b.ID] = b
	}
	for _, e := range file.Scripted {
		c.scripted[e.ID] = e
	}
	for _, item := range file.Shop {
		c.shop[item.ID] = item
	}

	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// check verifies the catalog has the shape the engine relies on
func (c *Catalog) check() error {
	if len(c.data.Industries) == 0 {
		return errors.New("catalog has no industries")
	}
	if len(c.data.Levels) == 0 {
		return errors.New("catalog has no levels")
	}
	for i, l := range c.data.Levels {
		if l.ID != i+1 {
			return fmt.Errorf("level %d has id %d", i+1, l.ID)
		}
	}

	checkEvent := func(e types.Event) error {
		if len(e.Options) == 0 {
			return fmt.Errorf("event %s has no options", e.ID)
		}
		for _, o := range e.Options {
			grants := []*types.BuffGrant{o.Effect.Delta.AddBuff}
			for _, b := range o.Effect.Branches {
				grants = append(grants, b.Then.AddBuff)
			}
			for _, g := range grants {
				if g == nil {
					continue
				}
				if _, ok := c.buffs[g.ID]; !ok {
					return fmt.Errorf("event %s grants unknown buff %s", e.ID, g.ID)
				}
			}
		}
		return nil
	}

	all := append([]types.Event{}, c.data.Events...)
	all = append(all, c.data.Routines...)
	all = append(all, c.data.Scripted...)
	all = append(all, c.data.Chained.Stamina, c.data.Chained.Sanity, c.data.Chained.Money)
	for _, e := range all {
		if err := checkEvent(e); err != nil {
			return err
		}
	}

	for _, ind := range c.data.Industries {
		if ind.Milestone != nil {
			if _, ok := c.scripted[ind.Milestone.EventID]; !ok {
				return fmt.Errorf("industry %s milestone references unknown event %s", ind.Type, ind.Milestone.EventID)
			}
		}
		for _, g := range ind.StartingBuffs {
			if _, ok := c.buffs[g.ID]; !ok {
				return fmt.Errorf("industry %s starts with unknown buff %s", ind.Type, g.ID)
			}
		}
	}
	return nil
}

// Industries returns the industries in unlock order
func (c *Catalog) Industries() []types.Industry {
	return append([]types.Industry(nil), c.data.Industries...)
}

// DefaultIndustry is the first industry of the unlock chain
func (c *Catalog) DefaultIndustry() types.Industry {
	return c.data.Industries[0]
}

// Industry looks up an industry, falling back to the default one
func (c *Catalog) Industry(t types.IndustryType) types.Industry {
	for _, ind := range c.data.Industries {
		if ind.Type == t {
			return ind
		}
	}
	return c.DefaultIndustry()
}

// HasIndustry reports whether the catalog defines the industry
func (c *Catalog) HasIndustry(t types.IndustryType) bool {
	for _, ind := range c.data.Industries {
		if ind.Type == t {
			return true
		}
	}
	return false
}

// NextIndustry returns the industry unlocked by surviving in t
func (c *Catalog) NextIndustry(t types.IndustryType) (types.IndustryType, bool) {
	for i, ind := range c.data.Industries {
		if ind.Type == t && i+1 < len(c.data.Industries) {
			return c.data.Industries[i+1].Type, true
		}
	}
	return "", false
}

// LevelCount is the number of rungs on the ladder
func (c *Catalog) LevelCount() int {
	return len(c.data.Levels)
}

// Level returns the rung for id, clamped into the ladder
func (c *Catalog) Level(id int) types.Level {
	if id < 1 {
		id = 1
	}
	if id > len(c.data.Levels) {
		id = len(c.data.Levels)
	}
	return c.data.Levels[id-1]
}

// Buff instantiates a catalog buff with the given duration
func (c *Catalog) Buff(id string, duration int) (types.Buff, bool) {
	b, ok := c.buffs[id]
	if !ok {
		return types.Buff{}, false
	}
	b.Duration = duration
	return b, true
}

// Pool returns the random-draw pool of an industry: its own events, the
// universal events and the routine templates rendered with its wording
func (c *Catalog) Pool(t types.IndustryType) []types.Event {
	ind := c.Industry(t)
	pool := make([]types.Event, 0, len(c.data.Events)+len(c.data.Routines))
	for _, e := range c.data.Events {
		if e.Industry == "" || e.Industry == ind.Type {
			pool = append(pool, render(e, ind, 0))
		}
	}
	for _, e := range c.data.Routines {
		pool = append(pool, render(e, ind, 0))
	}
	return pool
}

// Chained returns the low-resource override event for the given slot
func (c *Catalog) Chained(slot string, t types.IndustryType) types.Event {
	ind := c.Industry(t)
	var e types.Event
	switch slot {
	case ChainedStamina:
		e = c.data.Chained.Stamina
	case ChainedSanity:
		e = c.data.Chained.Sanity
	default:
		e = c.data.Chained.Money
	}
	return render(e, ind, 0)
}

// Scripted returns a fixed-cadence event rendered for the week
func (c *Catalog) Scripted(id string, t types.IndustryType, week int) (types.Event, bool) {
	e, ok := c.scripted[id]
	if !ok {
		return types.Event{}, false
	}
	return render(e, c.Industry(t), week), true
}

// ShopItems returns the purchasable items in display order
func (c *Catalog) ShopItems() []types.ShopItem {
	return append([]types.ShopItem(nil), c.data.Shop...)
}

// ShopItem looks up an item by id
func (c *Catalog) ShopItem(id string) (types.ShopItem, bool) {
	item, ok := c.shop[id]
	return item, ok
}

// render binds an event to an industry: templates are filled with the
// industry wording and per-industry descriptions take precedence
func render(e types.Event, ind types.Industry, week int) types.Event {
	r := strings.NewReplacer(
		"{{overtime}}", ind.Text.Overtime,
		"{{fired}}", ind.Text.Fired,
		"{{progress}}", ind.Text.Progress,
		"{{bonus}}", ind.Text.Bonus,
		"{{currency}}", ind.Text.Currency,
		"{{week}}", strconv.Itoa(week),
	)

	out := e
	out.Industry = ind.Type
	out.Title = r.Replace(e.Title)
	out.Description = r.Replace(e.Description)
	if d, ok := e.Descriptions[ind.Type]; ok {
		out.Description = r.Replace(d)
	}
	out.Descriptions = nil
	out.Options = make([]types.Option, len(e.Options))
	for i, o := range e.Options {
		o.Label = r.Replace(o.Label)
		out.Options[i] = o
	}
	return out
}
