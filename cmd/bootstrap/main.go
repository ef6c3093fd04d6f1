package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"genlog-api/internal/config"
	"genlog-api/internal/domain/entity"
	"genlog-api/internal/wire"
)

const (
	defaultTeamID = "00000000-0000-0000-0000-000000000001"
	defaultAppID  = "00000000-0000-0000-0000-000000000101"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表与索引
	if err := dataLayer.PgClient.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	fmt.Println("Schema migrated.")

	// 4. 默认团队
	teamID := envOr("BOOTSTRAP_TEAM_ID", defaultTeamID)
	plan := entity.PlanTier(envOr("BOOTSTRAP_PLAN", string(entity.PlanFree)))

	team, err := dataLayer.TeamRepo.GetByID(ctx, teamID)
	if err != nil {
		log.Fatalf("failed to get team: %v", err)
	}
	if team == nil {
		fmt.Printf("Creating default team %s (%s plan)...\n", teamID, plan)
		team = &entity.Team{ID: teamID, Name: "Default Team", Plan: plan}
		if err := dataLayer.TeamRepo.Create(ctx, team); err != nil {
			log.Fatalf("failed to create team: %v", err)
		}
	} else if team.Plan != plan {
		fmt.Printf("Updating team %s plan: %s -> %s\n", teamID, team.Plan, plan)
		if err := dataLayer.TeamRepo.UpdatePlan(ctx, teamID, plan); err != nil {
			log.Fatalf("failed to update team plan: %v", err)
		}
	} else {
		fmt.Printf("Team %s already exists.\n", teamID)
	}

	// 5. 默认应用，未激活，首条记录入库后激活
	appID := envOr("BOOTSTRAP_APP_ID", defaultAppID)
	app, err := dataLayer.AppRepo.GetByID(ctx, appID)
	if err != nil {
		log.Fatalf("failed to get app: %v", err)
	}
	if app == nil {
		fmt.Printf("Creating default app %s...\n", appID)
		app = &entity.App{ID: appID, TeamID: teamID, Name: "Default App"}
		if err := dataLayer.AppRepo.Create(ctx, app); err != nil {
			log.Fatalf("failed to create app: %v", err)
		}
	} else {
		fmt.Printf("App %s already exists.\n", appID)
	}

	fmt.Println("Bootstrap completed successfully.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
