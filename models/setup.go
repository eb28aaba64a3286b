package models

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"greenlens/utils"
)

var DB *gorm.DB

// ConnectDataBase Open the database selected in the config and migrate the schema.
func ConnectDataBase(config *utils.Config) {
	var err error

	switch config.Database.Driver {
	case "mysql":
		DB, err = gorm.Open(mysql.Open(config.Database.DSN), &gorm.Config{})
		if err != nil {
			log.Fatal("cannot connect mysql database: ", err)
		}
		log.Info("Connected mysql database")
	case "sqlite":
		DB, err = gorm.Open(sqlite.Open(config.Database.Filename), &gorm.Config{})
		if err != nil {
			log.Fatal(fmt.Sprintf("Cannot connect sqlite database at %s: ", config.Database.Filename), err)
		}
		log.Info(fmt.Sprintf("Connected sqlite database at %s", config.Database.Filename))
	default:
		log.Fatalf("unknown database driver %q", config.Database.Driver)
	}

	if err := DB.AutoMigrate(&User{}, &Image{}, &Route{}, &RouteStop{}); err != nil {
		log.Fatal("migration failed: ", err)
	}
}
