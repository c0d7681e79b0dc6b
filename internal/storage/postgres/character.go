package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tabletop/internal/campaign"
	"github.com/cory-johannsen/tabletop/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, user_id, campaign_id, name,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c          character.Character
		campaignID *int64
	)
	err := row.Scan(
		&c.ID, &c.UserID, &campaignID, &c.Name,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if campaignID != nil {
		c.CampaignID = *campaignID
	}
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
// The character starts outside any campaign.
//
// Precondition: c.Name must be non-empty; c.UserID must be > 0.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(user_id, name, strength, dexterity, constitution, intelligence, wisdom, charisma)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+characterColumns,
		c.UserID, c.Name,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// ListByCampaign returns the campaign's party in enrollment order.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE campaign_id = $1 ORDER BY enrolled_at ASC, id ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Enroll adds a character to a campaign's party.
//
// Postcondition: returns campaign.ErrPartyFull when the party already has
// campaign.MaxPartySize members, campaign.ErrNotFound for an unknown
// campaign, ErrCharacterNotFound for an unknown character.
func (r *CharacterRepository) Enroll(ctx context.Context, characterID, campaignID int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the campaign row so two enrollments cannot both see room.
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM campaigns WHERE id = $1 FOR UPDATE`, campaignID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return campaign.ErrNotFound
			}
			return fmt.Errorf("locking campaign: %w", err)
		}

		var n int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM characters WHERE campaign_id = $1 AND id <> $2`,
			campaignID, characterID,
		).Scan(&n); err != nil {
			return fmt.Errorf("counting party: %w", err)
		}
		if n >= campaign.MaxPartySize {
			return campaign.ErrPartyFull
		}

		tag, err := tx.Exec(ctx, `
			UPDATE characters SET campaign_id = $2, enrolled_at = NOW(), updated_at = NOW()
			WHERE id = $1`,
			characterID, campaignID,
		)
		if err != nil {
			if sqlState(err) == foreignKeyViolation {
				return campaign.ErrNotFound
			}
			return fmt.Errorf("enrolling character: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCharacterNotFound
		}
		return nil
	})
}

// SaveAbilities overwrites a character's ability scores. A running combat
// keeps the dexterity it was rolled with.
func (r *CharacterRepository) SaveAbilities(ctx context.Context, id int64, a character.AbilityScores) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET strength = $2, dexterity = $3, constitution = $4,
			intelligence = $5, wisdom = $6, charisma = $7, updated_at = NOW()
		WHERE id = $1`,
		id, a.Strength, a.Dexterity, a.Constitution, a.Intelligence, a.Wisdom, a.Charisma,
	)
	if err != nil {
		return fmt.Errorf("saving abilities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
