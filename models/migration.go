package models

import (
	"log"

	"github.com/mmfintech/bytebank_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Account{},
		&Transaction{},
		&Balance{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
