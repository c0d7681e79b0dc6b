package npc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingField is wrapped when a monster template lacks a required key.
var ErrMissingField = errors.New("monster template missing field")

// ArmorClass accepts either a bare integer or the SRD list form
// [{type: natural, value: 8}], in which case the first value wins.
type ArmorClass int

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArmorClass) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("armor_class: %w", err)
		}
		*a = ArmorClass(v)
		return nil
	case yaml.SequenceNode:
		var entries []struct {
			Value *int `yaml:"value"`
		}
		if err := node.Decode(&entries); err != nil {
			return fmt.Errorf("armor_class: %w", err)
		}
		if len(entries) == 0 || entries[0].Value == nil {
			return fmt.Errorf("%w: armor_class[0].value", ErrMissingField)
		}
		*a = ArmorClass(*entries[0].Value)
		return nil
	default:
		return fmt.Errorf("armor_class: unsupported YAML node kind %d", node.Kind)
	}
}

// Senses holds the template's perception block.
type Senses struct {
	PassivePerception int `yaml:"passive_perception"`
}

// Proficiency is one skill or save bonus, e.g. "Saving Throw: WIS" +0.
type Proficiency struct {
	Proficiency struct {
		Name string `yaml:"name"`
	} `yaml:"proficiency"`
	Value int `yaml:"value"`
}

// String renders "Saving Throw: WIS 0".
func (p Proficiency) String() string {
	return fmt.Sprintf("%s %d", p.Proficiency.Name, p.Value)
}

// Feature is a named action or special ability.
type Feature struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

// String renders "Slam Melee attack."
func (f Feature) String() string {
	return f.Name + " " + f.Desc
}

// MonsterTemplate is one entry of the SRD monster reference data.
type MonsterTemplate struct {
	Index            string        `yaml:"index"`
	Name             string        `yaml:"name"`
	ArmorClass       ArmorClass    `yaml:"armor_class"`
	Senses           Senses        `yaml:"senses"`
	HitPoints        int           `yaml:"hit_points"`
	XP               int           `yaml:"xp"`
	Proficiencies    []Proficiency `yaml:"proficiencies"`
	Actions          []Feature     `yaml:"actions"`
	SpecialAbilities []Feature     `yaml:"special_abilities"`
	Strength         int           `yaml:"strength"`
	Dexterity        int           `yaml:"dexterity"`
	Constitution     int           `yaml:"constitution"`
	Intelligence     int           `yaml:"intelligence"`
	Wisdom           int           `yaml:"wisdom"`
	Charisma         int           `yaml:"charisma"`
}

// Key returns the library key: Index, or the lower-cased, hyphenated Name.
func (t *MonsterTemplate) Key() string {
	if t.Index != "" {
		return t.Index
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t.Name)), " ", "-")
}

var requiredKeys = []string{
	"armor_class", "senses", "hit_points", "xp",
	"proficiencies", "actions", "special_abilities",
	"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
}

// checkRequired walks a decoded document and reports the first missing key
// by its path, e.g. "actions[2].desc".
func checkRequired(doc map[string]any) error {
	for _, k := range requiredKeys {
		if _, ok := doc[k]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingField, k)
		}
	}
	senses, _ := doc["senses"].(map[string]any)
	if _, ok := senses["passive_perception"]; !ok {
		return fmt.Errorf("%w: senses.passive_perception", ErrMissingField)
	}

	profs, _ := doc["proficiencies"].([]any)
	for i, p := range profs {
		entry, _ := p.(map[string]any)
		inner, _ := entry["proficiency"].(map[string]any)
		if _, ok := inner["name"]; !ok {
			return fmt.Errorf("%w: proficiencies[%d].proficiency.name", ErrMissingField, i)
		}
		if _, ok := entry["value"]; !ok {
			return fmt.Errorf("%w: proficiencies[%d].value", ErrMissingField, i)
		}
	}

	for _, list := range []string{"actions", "special_abilities"} {
		items, _ := doc[list].([]any)
		for i, item := range items {
			entry, _ := item.(map[string]any)
			for _, k := range []string{"name", "desc"} {
				if _, ok := entry[k]; !ok {
					return fmt.Errorf("%w: %s[%d].%s", ErrMissingField, list, i, k)
				}
			}
		}
	}
	return nil
}

// LoadTemplateFromBytes parses one monster template from YAML or JSON.
//
// Postcondition: returns a template whose required keys were all present,
// or an error wrapping ErrMissingField naming the first absent key.
func LoadTemplateFromBytes(data []byte) (*MonsterTemplate, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing monster template: %w", err)
	}
	return decodeTemplate(doc)
}

func decodeTemplate(doc map[string]any) (*MonsterTemplate, error) {
	if err := checkRequired(doc); err != nil {
		if name, ok := doc["name"].(string); ok {
			return nil, fmt.Errorf("monster %q: %w", name, err)
		}
		return nil, err
	}
	// Round-trip through YAML so the typed decode (ArmorClass included)
	// applies to the validated document.
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encoding monster template: %w", err)
	}
	var tmpl MonsterTemplate
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return nil, fmt.Errorf("decoding monster template: %w", err)
	}
	return &tmpl, nil
}

// LoadTemplatesFromBytes parses either a single template or a list of them.
func LoadTemplatesFromBytes(data []byte) ([]*MonsterTemplate, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing monster templates: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind != yaml.SequenceNode {
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, err
		}
		return []*MonsterTemplate{tmpl}, nil
	}

	var docs []map[string]any
	if err := node.Decode(&docs); err != nil {
		return nil, fmt.Errorf("parsing monster template list: %w", err)
	}
	out := make([]*MonsterTemplate, 0, len(docs))
	for i, doc := range docs {
		tmpl, err := decodeTemplate(doc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// LoadTemplates reads every *.yaml, *.yml and *.json file in dir.
//
// Postcondition: returns all templates, or an error on the first file that
// fails; partial results are discarded.
func LoadTemplates(dir string) ([]*MonsterTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*MonsterTemplate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		batch, err := LoadTemplatesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, batch...)
	}
	return templates, nil
}
