package models

import (
	"log"

	"github.com/mmdatafocus/donations_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Organization{},
		&DonorAccount{},
		&Donation{},
		&LegacyAutopayment{},
		&SponsorSnapshot{}, &RecurringSponsorSnapshot{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
