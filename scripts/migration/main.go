package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	user := "user"
	pwd := "password"
	host := "tcp(127.0.0.1:3306)"
	dbName := "homeland_db"

	if os.Getenv("MYSQL_USER") != "" {
		user = os.Getenv("MYSQL_USER")
	}
	if os.Getenv("MYSQL_PWD") != "" {
		pwd = os.Getenv("MYSQL_PWD")
	}
	if os.Getenv("MYSQL_HOST") != "" {
		host = os.Getenv("MYSQL_HOST")
	}
	if os.Getenv("MYSQL_DATABASE") != "" {
		dbName = os.Getenv("MYSQL_DATABASE")
	}

	dsn := fmt.Sprintf("%s:%s@%s/%s?parseTime=true&loc=Local", user, pwd, host, dbName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			name VARCHAR(64) NOT NULL,
			email VARCHAR(254) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			seller_id CHAR(26) NOT NULL,
			discount_percent INT,
			is_special BOOLEAN NOT NULL DEFAULT FALSE,
			items JSON NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			FOREIGN KEY (seller_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
			user_id CHAR(26) NOT NULL,
			item_name VARCHAR(64) NOT NULL,
			seller_id CHAR(26) NOT NULL,
			listing_id CHAR(26) NOT NULL,
			quantity INT NOT NULL,
			purchase_times INT NOT NULL,
			exchange VARCHAR(10) NOT NULL,
			price INT NOT NULL DEFAULT 0,
			exchange_item_name VARCHAR(64) NOT NULL DEFAULT '',
			exchange_quantity INT NOT NULL DEFAULT 0,
			was_updated BOOLEAN NOT NULL DEFAULT FALSE,
			last_updated TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, item_name, seller_id)
		)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			log.Printf("Error executing query: %s\nError: %v\n", q, err)
		} else {
			fmt.Println("Executed successfully:", q[:40], "...")
		}
	}
	fmt.Println("Migration completed.")
}
