// Package main provides the gamemaster's encounter CLI: pick a scene,
// roll initiative and step through turns for one campaign.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/campaign"
	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/game/npc"
	"github.com/cory-johannsen/tabletop/internal/observability"
	"github.com/cory-johannsen/tabletop/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "optional dotenv file with TABLETOP_ overrides")
	op := flag.String("op", "show", "operation: scene, roster, start, next, end, reset, show, spawn, monsters")
	campaignID := flag.Int64("campaign", 0, "campaign id (required)")
	sceneID := flag.Int64("scene", 0, "scene id for -op scene and -op spawn")
	monster := flag.String("monster", "", "template index for -op spawn")
	flag.Parse()

	if *campaignID <= 0 && *op != "spawn" && *op != "monsters" {
		flag.Usage()
		os.Exit(1)
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatalf("loading env file: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "encounter")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	src, err := dice.NewSource(cfg.Dice.Source, cfg.Dice.Seed)
	if err != nil {
		logger.Fatal("building dice source", zap.Error(err))
	}
	roller := dice.NewLoggedRoller(src, logger)

	templates, err := npc.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.String("dir", cfg.Content.MonstersDir), zap.Error(err))
	}
	library, err := npc.NewLibrary(templates)
	if err != nil {
		logger.Fatal("indexing monster templates", zap.Error(err))
	}
	logger.Debug("monster templates loaded", zap.Int("count", library.Len()))

	if *op == "monsters" {
		fmt.Fprintln(os.Stdout, renderMonsters(library))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	svc := campaign.NewService(
		postgres.NewCampaignRepository(pool.DB(), roller),
		postgres.NewCharacterRepository(pool.DB()),
		postgres.NewSceneNPCRepository(pool.DB()),
		library,
		roller,
		logger,
	)

	if err := run(ctx, svc, library, os.Stdout, *op, *campaignID, *sceneID, *monster); err != nil {
		logger.Fatal("encounter operation failed", zap.String("op", *op), zap.Error(err))
	}
}

func run(ctx context.Context, svc *campaign.Service, library *npc.Library, w io.Writer, op string, campaignID, sceneID int64, monster string) error {
	var (
		c   *combat.Combat
		err error
	)
	switch op {
	case "scene":
		c, err = svc.SelectScene(ctx, campaignID, sceneID)
	case "roster":
		c, err = svc.RefreshRoster(ctx, campaignID)
	case "start":
		c, err = svc.Start(ctx, campaignID)
	case "next":
		if _, _, err = svc.NextTurn(ctx, campaignID); err == nil {
			c, err = svc.Current(ctx, campaignID)
		}
	case "end":
		if err = svc.End(ctx, campaignID); err == nil {
			c, err = svc.Current(ctx, campaignID)
		}
	case "reset":
		if err = svc.Reset(ctx, campaignID); err == nil {
			c, err = svc.Current(ctx, campaignID)
		}
	case "show":
		c, err = svc.Current(ctx, campaignID)
	case "spawn":
		n, serr := svc.SpawnFromTemplate(ctx, sceneID, monster)
		if serr != nil {
			return withTemplateHint(serr, library)
		}
		_, err = fmt.Fprintf(w, "spawned %s (npc#%d) in scene %d\n", n.Name, n.ID, sceneID)
		return err
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, renderCombat(c))
	return err
}
