package db_config

import (
	"log"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func GetGormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Warn
	}

	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "", log.LstdFlags),
			logger.Config{
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		TranslateError: true,
	}
}
