package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tabletop/internal/campaign"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// ErrDuplicateCampaign is returned when a gamemaster already runs a
// campaign with the same name.
var ErrDuplicateCampaign = errors.New("campaign name already in use")

// CampaignRepository stores campaigns and the combat each one owns. The
// combat lives in a jsonb column in the text form produced by
// combat.ToText.
type CampaignRepository struct {
	db  *pgxpool.Pool
	src dice.Source
}

// NewCampaignRepository creates a CampaignRepository. src is only used
// when a stored record is active but lacks a turn sequence.
//
// Precondition: db must be a valid, open connection pool.
func NewCampaignRepository(db *pgxpool.Pool, src dice.Source) *CampaignRepository {
	return &CampaignRepository{db: db, src: src}
}

// Create inserts a campaign with a fresh, inactive combat.
//
// Postcondition: returns ErrDuplicateCampaign when gamemasterID already
// has a campaign called name.
// Precondition: name must be non-empty; gamemasterID must be > 0.
func (r *CampaignRepository) Create(ctx context.Context, name string, gamemasterID int64) (*campaign.Campaign, error) {
	text, err := combat.New(0).ToText()
	if err != nil {
		return nil, err
	}
	var out campaign.Campaign
	err = r.db.QueryRow(ctx, `
		INSERT INTO campaigns (name, gamemaster_id, combat)
		VALUES ($1, $2, $3)
		RETURNING id, name, gamemaster_id, created_at`,
		name, gamemasterID, string(text),
	).Scan(&out.ID, &out.Name, &out.GamemasterID, &out.CreatedAt)
	if err != nil {
		if sqlState(err) == uniqueViolation {
			return nil, ErrDuplicateCampaign
		}
		return nil, fmt.Errorf("inserting campaign: %w", err)
	}
	return &out, nil
}

// GetByID returns the campaign or campaign.ErrNotFound.
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	var c campaign.Campaign
	err := r.db.QueryRow(ctx, `
		SELECT id, name, gamemaster_id, created_at FROM campaigns WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.GamemasterID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, campaign.ErrNotFound
		}
		return nil, fmt.Errorf("querying campaign: %w", err)
	}
	return &c, nil
}

// LoadCombat reads and decodes the campaign's combat.
func (r *CampaignRepository) LoadCombat(ctx context.Context, campaignID int64) (*combat.Combat, error) {
	var text []byte
	err := r.db.QueryRow(ctx, `SELECT combat FROM campaigns WHERE id = $1`, campaignID).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, campaign.ErrNotFound
		}
		return nil, fmt.Errorf("querying combat: %w", err)
	}
	c, err := combat.FromText(text, r.src)
	if err != nil {
		return nil, fmt.Errorf("campaign %d: %w", campaignID, err)
	}
	return c, nil
}

// UpdateCombat locks the campaign row, applies fn to its combat and writes
// the result back in the same transaction. Concurrent updates of one
// campaign queue on the row lock.
func (r *CampaignRepository) UpdateCombat(ctx context.Context, campaignID int64, fn func(*combat.Combat) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var text []byte
		err := tx.QueryRow(ctx, `SELECT combat FROM campaigns WHERE id = $1 FOR UPDATE`, campaignID).Scan(&text)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return campaign.ErrNotFound
			}
			return fmt.Errorf("locking campaign %d: %w", campaignID, err)
		}

		c, err := combat.FromText(text, r.src)
		if err != nil {
			return fmt.Errorf("campaign %d: %w", campaignID, err)
		}
		if err := fn(c); err != nil {
			return err
		}
		out, err := c.ToText()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE campaigns SET combat = $2, updated_at = NOW() WHERE id = $1`,
			campaignID, string(out),
		); err != nil {
			return fmt.Errorf("saving combat: %w", err)
		}
		return nil
	})
}
