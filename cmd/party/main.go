// Package main provides a CLI for creating campaigns and filling their parties.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "optional dotenv file with TABLETOP_ overrides")
	op := flag.String("op", "", "operation: campaign, character, enroll (required)")
	name := flag.String("name", "", "campaign or character name")
	userID := flag.Int64("user", 0, "owning user id (gamemaster for -op campaign)")
	campaignID := flag.Int64("campaign", 0, "campaign id for -op enroll")
	characterID := flag.Int64("character", 0, "character id for -op enroll")
	flag.Parse()

	if *op == "" {
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

	src, err := dice.NewSource(cfg.Dice.Source, cfg.Dice.Seed)
	if err != nil {
		log.Fatalf("building dice source: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	switch *op {
	case "campaign":
		if *name == "" || *userID <= 0 {
			log.Fatal("-op campaign requires -name and -user")
		}
		c, err := postgres.NewCampaignRepository(pool.DB(), src).Create(ctx, *name, *userID)
		if err != nil {
			log.Fatalf("creating campaign: %v", err)
		}
		fmt.Fprintf(os.Stdout, "created campaign %q (#%d) [%s]\n", c.Name, c.ID, time.Since(start))

	case "character":
		built, err := character.Build(*userID, *name, src)
		if err != nil {
			log.Fatalf("rolling character: %v", err)
		}
		c, err := postgres.NewCharacterRepository(pool.DB()).Create(ctx, built)
		if err != nil {
			log.Fatalf("creating character: %v", err)
		}
		a := c.Abilities
		fmt.Fprintf(os.Stdout, "created %s (#%d) STR %d DEX %d CON %d INT %d WIS %d CHA %d [%s]\n",
			c.Name, c.ID, a.Strength, a.Dexterity, a.Constitution, a.Intelligence, a.Wisdom, a.Charisma,
			time.Since(start))

	case "enroll":
		if *campaignID <= 0 || *characterID <= 0 {
			log.Fatal("-op enroll requires -campaign and -character")
		}
		if err := postgres.NewCharacterRepository(pool.DB()).Enroll(ctx, *characterID, *campaignID); err != nil {
			log.Fatalf("enrolling character: %v", err)
		}
		fmt.Fprintf(os.Stdout, "enrolled character #%d in campaign #%d [%s]\n", *characterID, *campaignID, time.Since(start))

	default:
		log.Fatalf("invalid op %q: must be campaign, character or enroll", *op)
	}
}
