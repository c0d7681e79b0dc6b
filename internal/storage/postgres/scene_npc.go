package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tabletop/internal/game/npc"
)

// ErrSceneNPCNotFound is returned when an NPC lookup yields no results.
var ErrSceneNPCNotFound = errors.New("scene npc not found")

// SceneNPCRepository stores the NPCs placed in scenes. The NPC's attributes
// are kept as a jsonb document beside its name.
type SceneNPCRepository struct {
	db *pgxpool.Pool
}

// NewSceneNPCRepository creates a SceneNPCRepository backed by the given pool.
func NewSceneNPCRepository(db *pgxpool.Pool) *SceneNPCRepository {
	return &SceneNPCRepository{db: db}
}

// Create stores n in sceneID and returns a copy with ID set.
//
// Precondition: n.Name must be non-empty; sceneID must be > 0.
func (r *SceneNPCRepository) Create(ctx context.Context, sceneID int64, n *npc.NPC) (*npc.NPC, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encoding npc: %w", err)
	}
	out := *n
	if err := r.db.QueryRow(ctx, `
		INSERT INTO scene_npcs (scene_id, name, data) VALUES ($1, $2, $3)
		RETURNING id`,
		sceneID, n.Name, string(data),
	).Scan(&out.ID); err != nil {
		return nil, fmt.Errorf("inserting scene npc: %w", err)
	}
	return &out, nil
}

func scanNPC(row pgx.Row) (*npc.NPC, error) {
	var (
		id   int64
		name string
		data []byte
	)
	if err := row.Scan(&id, &name, &data); err != nil {
		return nil, err
	}
	var n npc.NPC
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decoding npc %d: %w", id, err)
	}
	n.ID, n.Name = id, name
	return &n, nil
}

// GetByID returns one scene NPC.
func (r *SceneNPCRepository) GetByID(ctx context.Context, id int64) (*npc.NPC, error) {
	n, err := scanNPC(r.db.QueryRow(ctx, `SELECT id, name, data FROM scene_npcs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSceneNPCNotFound
		}
		return nil, fmt.Errorf("querying scene npc: %w", err)
	}
	return n, nil
}

// ListByScene returns the scene's NPCs in creation order.
func (r *SceneNPCRepository) ListByScene(ctx context.Context, sceneID int64) ([]*npc.NPC, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, data FROM scene_npcs WHERE scene_id = $1 ORDER BY id ASC`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("listing scene npcs: %w", err)
	}
	defer rows.Close()

	npcs := make([]*npc.NPC, 0)
	for rows.Next() {
		n, err := scanNPC(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scene npc row: %w", err)
		}
		npcs = append(npcs, n)
	}
	return npcs, rows.Err()
}

// Delete removes a scene NPC.
func (r *SceneNPCRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM scene_npcs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting scene npc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSceneNPCNotFound
	}
	return nil
}
