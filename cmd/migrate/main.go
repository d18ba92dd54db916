package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS watch_history CASCADE`,
		`DROP TABLE IF EXISTS likes CASCADE`,
		`DROP TABLE IF EXISTS subscriptions CASCADE`,
		`DROP TABLE IF EXISTS comments CASCADE`,
		`DROP TABLE IF EXISTS playlist_videos CASCADE`,
		`DROP TABLE IF EXISTS playlists CASCADE`,
		`DROP TABLE IF EXISTS tweets CASCADE`,
		`DROP TABLE IF EXISTS videos CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			avatar_url TEXT NOT NULL,
			cover_image_url TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			refresh_token TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS videos (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			duration DOUBLE PRECISION NOT NULL DEFAULT 0,
			views BIGINT NOT NULL DEFAULT 0,
			is_published BOOLEAN NOT NULL DEFAULT true,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS playlists (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS playlist_videos (
			position BIGSERIAL PRIMARY KEY,
			playlist_id UUID NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS tweets (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS likes (
			id UUID PRIMARY KEY,
			video_id UUID REFERENCES videos(id) ON DELETE CASCADE,
			comment_id UUID REFERENCES comments(id) ON DELETE CASCADE,
			tweet_id UUID REFERENCES tweets(id) ON DELETE CASCADE,
			liked_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (num_nonnulls(video_id, comment_id, tweet_id) = 1)
		)`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			subscriber_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			channel_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (subscriber_id, channel_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_history (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			watched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, video_id)
		)`,

		// One like per user per target; the toggle insert relies on these
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_video ON likes (liked_by, video_id) WHERE video_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_comment ON likes (liked_by, comment_id) WHERE comment_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_tweet ON likes (liked_by, tweet_id) WHERE tweet_id IS NOT NULL`,

		`CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_video ON comments(video_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_playlist_videos_playlist ON playlist_videos(playlist_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_owner ON tweets(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_user ON watch_history(user_id, watched_at DESC)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	ownerID := uuid.NewString()

	_, err = conn.Exec(ctx, `
		INSERT INTO users (id, username, email, full_name, avatar_url, password_hash)
		VALUES ($1, 'demo', 'demo@example.com', 'Demo Channel', 'https://placehold.co/128', $2)
		ON CONFLICT (username) DO NOTHING
	`, ownerID, string(hash))
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO videos (id, title, description, video_url, thumbnail_url, duration, owner_id)
		SELECT $1, 'Welcome to vidtube', 'First upload', 'https://placehold.co/video.mp4', 'https://placehold.co/320x180', 42, u.id
		FROM users u WHERE u.username = 'demo'
		ON CONFLICT (id) DO NOTHING
	`, uuid.NewString())
	if err != nil {
		return fmt.Errorf("failed to seed video: %w", err)
	}

	return nil
}
