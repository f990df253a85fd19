package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Утилита для наполнения базы стартовыми данными:
// админ, несколько демо-пользователей и базовые категории.
// Запускается вручную после применения миграций.
func main() {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DATABASE_HOST", "localhost"),
		envOr("DATABASE_PORT", "5432"),
		envOr("DATABASE_USER", "postgres"),
		envOr("DATABASE_PASSWORD", "postgres"),
		envOr("DATABASE_DBNAME", "survey_db"),
		envOr("DATABASE_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	seedUser(db, "admin@example.com", "admin", "admin123", "admin")
	seedUser(db, "alice@example.com", "alice", "password1", "user")
	seedUser(db, "bob@example.com", "bob", "password1", "user")

	seedCategory(db, "HR", "Опросы для сотрудников и кандидатов")
	seedCategory(db, "Product", "Обратная связь по продукту")
	seedCategory(db, "Events", "Опросы по мероприятиям")

	fmt.Println("Seed completed.")
}

func seedUser(db *sql.DB, email, userName, password, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Не удалось захешировать пароль для %s: %v", email, err)
	}

	result, err := db.Exec(`
		INSERT INTO users (email, password, user_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash), userName, role,
	)
	if err != nil {
		log.Fatalf("Не удалось создать пользователя %s: %v", email, err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Printf("Создан пользователь %s (role=%s)", email, role)
	} else {
		log.Printf("Пользователь %s уже существует, пропускаем", email)
	}
}

func seedCategory(db *sql.DB, name, description string) {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists); err != nil {
		log.Fatalf("Не удалось проверить категорию %s: %v", name, err)
	}
	if exists {
		log.Printf("Категория %s уже существует, пропускаем", name)
		return
	}

	if _, err := db.Exec(`INSERT INTO categories (name, description) VALUES ($1, $2)`, name, description); err != nil {
		log.Fatalf("Не удалось создать категорию %s: %v", name, err)
	}
	log.Printf("Создана категория %s", name)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
