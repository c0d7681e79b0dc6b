package campaign

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/game/npc"
)

// Service runs encounter operations against the stores. All methods are
// safe for concurrent use when the CombatStore honours its contract.
type Service struct {
	combats CombatStore
	chars   CharacterLister
	npcs    SceneNPCStore
	library *npc.Library
	src     dice.Source
	logger  *zap.Logger
}

// NewService wires a Service.
//
// Precondition: every argument must be non-nil.
func NewService(combats CombatStore, chars CharacterLister, npcs SceneNPCStore, library *npc.Library, src dice.Source, logger *zap.Logger) *Service {
	return &Service{
		combats: combats,
		chars:   chars,
		npcs:    npcs,
		library: library,
		src:     src,
		logger:  logger,
	}
}

// Current returns the campaign's combat without changing it.
func (s *Service) Current(ctx context.Context, campaignID int64) (*combat.Combat, error) {
	return s.combats.LoadCombat(ctx, campaignID)
}

// SelectScene replaces the campaign's combat with a fresh, inactive one for
// sceneID, rostering the party and the scene's NPCs. Scene 0 clears the
// selection and leaves the roster empty.
func (s *Service) SelectScene(ctx context.Context, campaignID, sceneID int64) (*combat.Combat, error) {
	var out *combat.Combat
	err := s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		fresh := combat.New(sceneID)
		if sceneID != 0 {
			if err := s.fillRoster(ctx, fresh, campaignID); err != nil {
				return err
			}
		}
		*c = *fresh
		out = fresh
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("selecting scene %d: %w", sceneID, err)
	}

	s.logger.Info("scene selected",
		zap.Int64("campaign_id", campaignID),
		zap.Int64("scene_id", sceneID),
		zap.Int("characters", len(out.Characters)),
		zap.Int("npcs", len(out.NPCs)),
	)
	return out, nil
}

// RefreshRoster re-snapshots the party and scene NPCs into an inactive
// combat, picking up dexterity edits and newly spawned NPCs.
func (s *Service) RefreshRoster(ctx context.Context, campaignID int64) (*combat.Combat, error) {
	var out *combat.Combat
	err := s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		if c.Active() {
			return ErrCombatActive
		}
		if c.SceneID == 0 {
			return ErrNoSceneSelected
		}
		if err := s.fillRoster(ctx, c, campaignID); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing roster: %w", err)
	}
	return out, nil
}

func (s *Service) fillRoster(ctx context.Context, c *combat.Combat, campaignID int64) error {
	chars, err := s.chars.ListByCampaign(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("listing party: %w", err)
	}
	npcs, err := s.npcs.ListByScene(ctx, c.SceneID)
	if err != nil {
		return fmt.Errorf("listing scene npcs: %w", err)
	}
	c.SetCharacters(combat.Snapshot(chars))
	c.SetNPCs(combat.Snapshot(npcs))
	return nil
}

// Start rolls initiative for the selected scene. Starting a running combat
// rerolls it.
func (s *Service) Start(ctx context.Context, campaignID int64) (*combat.Combat, error) {
	var (
		out   *combat.Combat
		rolls []combat.InitiativeRoll
	)
	err := s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		if c.SceneID == 0 {
			return ErrNoSceneSelected
		}
		var err error
		rolls, err = c.Activate(s.src)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("starting combat: %w", err)
	}

	for i, r := range rolls {
		s.logger.Info("initiative",
			zap.Int64("campaign_id", campaignID),
			zap.Int("position", i),
			zap.Stringer("participant", r.Turn),
			zap.Stringer("roll", r.Roll),
			zap.Int("total", r.Total),
		)
	}
	return out, nil
}

// NextTurn advances to the next participant and returns whose turn it is.
// ok is false when the combat has no participants.
func (s *Service) NextTurn(ctx context.Context, campaignID int64) (turn combat.Turn, ok bool, err error) {
	err = s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		if !c.Active() {
			return ErrCombatNotActive
		}
		c.AdvanceTurn()
		turn, ok = c.Current()
		return nil
	})
	if err != nil {
		return combat.Turn{}, false, fmt.Errorf("advancing turn: %w", err)
	}
	s.logger.Debug("turn advanced",
		zap.Int64("campaign_id", campaignID),
		zap.Stringer("participant", turn),
	)
	return turn, ok, nil
}

// End stops combat and forgets the turn order. Ending an inactive combat
// is a no-op.
func (s *Service) End(ctx context.Context, campaignID int64) error {
	err := s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		c.Deactivate()
		return nil
	})
	if err != nil {
		return fmt.Errorf("ending combat: %w", err)
	}
	s.logger.Info("combat ended", zap.Int64("campaign_id", campaignID))
	return nil
}

// Reset discards the combat entirely, as when the party moves to a new
// location.
func (s *Service) Reset(ctx context.Context, campaignID int64) error {
	err := s.combats.UpdateCombat(ctx, campaignID, func(c *combat.Combat) error {
		*c = *combat.New(0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("resetting combat: %w", err)
	}
	return nil
}

// SpawnFromTemplate stamps an NPC from the named monster template into
// sceneID and stores it.
func (s *Service) SpawnFromTemplate(ctx context.Context, sceneID int64, key string) (*npc.NPC, error) {
	tmpl, err := s.library.Get(key)
	if err != nil {
		return nil, err
	}
	created, err := s.npcs.Create(ctx, sceneID, npc.FromTemplate(tmpl))
	if err != nil {
		return nil, fmt.Errorf("storing %q npc: %w", key, err)
	}
	s.logger.Info("npc spawned",
		zap.Int64("scene_id", sceneID),
		zap.String("template", key),
		zap.Int64("npc_id", created.ID),
	)
	return created, nil
}
