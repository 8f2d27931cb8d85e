package db

import (
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := MigrationNames()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(names) == 0 || names[0] != "001_reading_history.sql" {
		t.Fatalf("unexpected migrations %v", names)
	}
	body, err := migrations.ReadFile("migrations/" + names[0])
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.Contains(string(body), "UNIQUE (user_id, article_id)") {
		t.Fatal("ожидали уникальный ключ (user_id, article_id)")
	}
}
