package db

import (
	"database/sql"
	"fmt"
	"log"

	"ChromaFM/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createLibraryTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createLibraryTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS library_tracks (
		id VARCHAR(64) NOT NULL,
		user_id BIGINT NOT NULL,
		title VARCHAR(512) NOT NULL,
		artist VARCHAR(512) NOT NULL,
		album VARCHAR(512) NOT NULL DEFAULT '',
		release_date DATETIME NULL,
		energy DOUBLE NULL,
		danceability DOUBLE NULL,
		tempo DOUBLE NULL,
		valence DOUBLE NULL,
		acousticness DOUBLE NULL,
		artwork_url VARCHAR(1024) NOT NULL DEFAULT '',
		artwork_key VARCHAR(64) NOT NULL DEFAULT '',
		added_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, id),
		INDEX idx_artwork_key (artwork_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create library_tracks table: %w", err)
	}
	return nil
}
