// Package character defines the player character model as the combat core
// sees it.
package character

import "time"

// AbilityScores holds the six D&D ability scores.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Character is a player character enrolled in at most one campaign.
//
// ID is set by the persistence layer; zero means unsaved. CampaignID zero
// means the character is not in a campaign.
type Character struct {
	ID         int64
	UserID     int64
	CampaignID int64

	Name      string
	Abilities AbilityScores

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParticipantID lets a character join a combat roster.
func (c *Character) ParticipantID() int64 { return c.ID }

// DexterityScore lets a character roll initiative.
func (c *Character) DexterityScore() int { return c.Abilities.Dexterity }
