package player

import "github.com/nathoo/drgrpg/types"

// Inventory returns a copy of the carried items in order.
func (p *Player) Inventory() []types.ItemSnapshot {
	return append([]types.ItemSnapshot{}, p.inventory...)
}

// Equipment returns every slot; empty slots map to nil.
func (p *Player) Equipment() map[string]*types.ItemSnapshot {
	out := make(map[string]*types.ItemSnapshot, len(Slots))
	for _, slot := range Slots {
		if it := p.equipment[slot]; it != nil {
			cp := *it
			out[slot] = &cp
		} else {
			out[slot] = nil
		}
	}
	return out
}

// HasEquipment reports whether any slot is filled.
func (p *Player) HasEquipment() bool {
	for _, it := range p.equipment {
		if it != nil {
			return true
		}
	}
	return false
}

// HasItem reports whether an item with the template id is equipped or
// carried.
func (p *Player) HasItem(id int) bool {
	for _, it := range p.equipment {
		if it != nil && it.ID == id {
			return true
		}
	}
	for _, it := range p.inventory {
		if it.ID == id {
			return true
		}
	}
	return false
}

// GiveItem appends an item to the inventory.
func (p *Player) GiveItem(it types.ItemSnapshot) {
	p.inventory = append(p.inventory, it)
	p.Dirty.Items = true
}

// Equip moves a carried item into the slot named by its type, first
// unequipping whatever occupies that slot. The item's attack and defense
// are added to the player's.
func (p *Player) Equip(it types.ItemSnapshot) bool {
	if !validSlot(it.Type) {
		return false
	}
	idx := p.findInInventory(it)
	if idx < 0 {
		return false
	}
	if cur := p.equipment[it.Type]; cur != nil {
		p.Unequip(*cur)
		// Unequipping shifted the inventory.
		idx = p.findInInventory(it)
	}
	p.inventory = append(p.inventory[:idx], p.inventory[idx+1:]...)
	cp := it
	p.equipment[it.Type] = &cp
	p.Augment("attack", it.Attack)
	p.Augment("defense", it.Defense)
	p.Dirty.Items = true
	return true
}

// Unequip returns an equipped item to the front of the inventory.
func (p *Player) Unequip(it types.ItemSnapshot) bool {
	cur := p.equipment[it.Type]
	if cur == nil || *cur != it {
		return false
	}
	delete(p.equipment, it.Type)
	p.inventory = append([]types.ItemSnapshot{it}, p.inventory...)
	p.Augment("attack", -it.Attack)
	p.Augment("defense", -it.Defense)
	p.Dirty.Items = true
	return true
}

// Drop discards the first carried item equal to it.
func (p *Player) Drop(it types.ItemSnapshot) bool {
	idx := p.findInInventory(it)
	if idx < 0 {
		return false
	}
	p.inventory = append(p.inventory[:idx], p.inventory[idx+1:]...)
	p.Dirty.Items = true
	return true
}

func (p *Player) findInInventory(it types.ItemSnapshot) int {
	for i, have := range p.inventory {
		if have == it {
			return i
		}
	}
	return -1
}

func validSlot(s string) bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}
