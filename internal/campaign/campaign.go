// Package campaign drives one campaign's encounter: choosing the active
// scene, rolling initiative, stepping turns and stocking scenes with NPCs.
package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/npc"
)

// MaxPartySize is the most characters a campaign can enroll.
const MaxPartySize = 6

var (
	// ErrNotFound is returned by stores for an unknown campaign.
	ErrNotFound = errors.New("campaign not found")
	// ErrPartyFull is returned when enrolling a seventh character.
	ErrPartyFull = errors.New("campaign party is full")
	// ErrNoSceneSelected is returned when starting combat without a scene.
	ErrNoSceneSelected = errors.New("no scene selected")
	// ErrCombatNotActive is returned when stepping turns outside combat.
	ErrCombatNotActive = errors.New("combat is not active")
	// ErrCombatActive is returned when the roster is edited mid-combat.
	ErrCombatActive = errors.New("combat is active")
)

// Campaign is a gamemaster-run game and the owner of one Combat.
type Campaign struct {
	ID           int64
	Name         string
	GamemasterID int64
	CreatedAt    time.Time
}

// CombatStore persists each campaign's combat.
type CombatStore interface {
	// LoadCombat returns the stored combat or ErrNotFound.
	LoadCombat(ctx context.Context, campaignID int64) (*combat.Combat, error)
	// UpdateCombat loads the combat, applies fn and stores the result.
	// Concurrent calls for the same campaign must not interleave. Nothing
	// is stored when fn returns an error.
	UpdateCombat(ctx context.Context, campaignID int64, fn func(*combat.Combat) error) error
}

// CharacterLister returns the characters enrolled in a campaign.
type CharacterLister interface {
	ListByCampaign(ctx context.Context, campaignID int64) ([]*character.Character, error)
}

// SceneNPCStore persists the NPCs placed in scenes.
type SceneNPCStore interface {
	Create(ctx context.Context, sceneID int64, n *npc.NPC) (*npc.NPC, error)
	ListByScene(ctx context.Context, sceneID int64) ([]*npc.NPC, error)
}
