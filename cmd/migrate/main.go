package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"hadirin.app/hadirin/attendance/core"
	"hadirin.app/hadirin/attendance/model"
)

func main() {
	godotenv.Load()

	db, err := core.ConnectDB(os.Getenv("DSN"))
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// The unique index on (user_id, date) and the location FK are what the
	// repository's error mapping relies on; migration must create both.
	if err := db.AutoMigrate(
		&model.AttendanceRecord{},
		&model.AttendanceLocation{},
	); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	log.Println("migration complete")
}
