// Package main is the entry point for the tierlist server. It reads
// configuration, builds the logger, and starts the application; all real
// logic lives under internal/.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chillgc/tierlist/internal/discord"
	"github.com/chillgc/tierlist/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/tierlist.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SESSION_SECRET signs the session cookie. Generate one with:
	//   openssl rand -hex 32
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	clientID := os.Getenv("DISCORD_CLIENT_ID")
	clientSecret := os.Getenv("DISCORD_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		logger.Error("DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET are required")
		os.Exit(1)
	}

	redirectURL := os.Getenv("DISCORD_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	}

	// Optional: bot token enables add-person-by-ID lookups; the guild ID
	// restricts logins to members of that server; the admin list grants
	// the admin flag at login.
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	requiredGuildID := os.Getenv("REQUIRED_GUILD_ID")

	var adminIDs []string
	for _, id := range strings.Split(os.Getenv("ADMIN_DISCORD_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			adminIDs = append(adminIDs, id)
		}
	}

	cfg := server.Config{
		Port:          port,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		Discord: discord.Config{
			ClientID:        clientID,
			ClientSecret:    clientSecret,
			BotToken:        botToken,
			RedirectURL:     redirectURL,
			RequiredGuildID: requiredGuildID,
		},
		AdminDiscordIDs: adminIDs,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
