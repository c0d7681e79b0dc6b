// Package npc holds encounter NPC records and the monster templates they
// are stamped from.
package npc

// NPC is an encounter NPC as a scene stores it.
type NPC struct {
	// ID is assigned by storage; zero means unsaved.
	ID int64 `json:"-"`

	// Name is stored in its own column, not in the attribute document.
	Name              string   `json:"-"`
	ArmourClass       int      `json:"armour_class"`
	PassivePerception int      `json:"passive_perception"`
	Proficiencies     []string `json:"proficiencies"`
	HitPoints         int      `json:"hit_points"`
	Experience        int      `json:"experience"`
	Actions           []string `json:"actions"`
	Abilities         []string `json:"abilities"`
	Constitution      int      `json:"constitution"`
	Strength          int      `json:"strength"`
	Dexterity         int      `json:"dexterity"`
	Wisdom            int      `json:"wisdom"`
	Intelligence      int      `json:"intelligence"`
	Charisma          int      `json:"charisma"`
	Description       string   `json:"description"`
}

// ParticipantID lets an NPC join a combat roster.
func (n *NPC) ParticipantID() int64 { return n.ID }

// DexterityScore lets an NPC roll initiative.
func (n *NPC) DexterityScore() int { return n.Dexterity }

// FromTemplate stamps a new, unsaved NPC from a monster template.
// Proficiencies, actions and special abilities are flattened to
// "name value" / "name description" strings. Templates carry no flavor
// text, so Description is empty.
//
// Precondition: t must be non-nil.
// Postcondition: the list fields are non-nil and match the template's
// entries one for one.
func FromTemplate(t *MonsterTemplate) *NPC {
	profs := make([]string, 0, len(t.Proficiencies))
	for _, p := range t.Proficiencies {
		profs = append(profs, p.String())
	}
	actions := make([]string, 0, len(t.Actions))
	for _, a := range t.Actions {
		actions = append(actions, a.String())
	}
	abilities := make([]string, 0, len(t.SpecialAbilities))
	for _, a := range t.SpecialAbilities {
		abilities = append(abilities, a.String())
	}

	return &NPC{
		Name:              t.Name,
		ArmourClass:       int(t.ArmorClass),
		PassivePerception: t.Senses.PassivePerception,
		Proficiencies:     profs,
		HitPoints:         t.HitPoints,
		Experience:        t.XP,
		Actions:           actions,
		Abilities:         abilities,
		Constitution:      t.Constitution,
		Strength:          t.Strength,
		Dexterity:         t.Dexterity,
		Wisdom:            t.Wisdom,
		Intelligence:      t.Intelligence,
		Charisma:          t.Charisma,
		Description:       "",
	}
}
