package models

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GenerateModels migrates the schema and regenerates gorm/gen query
// helpers. Run with GENERATE_MODELS=true; the process exits afterwards.
func GenerateModels(db *gorm.DB) {
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 newLogger,
	})

	fmt.Println("Migrating models...")
	if err := Migrate(migrateDB); err != nil {
		fmt.Printf("Error during models migration: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database migration completed successfully!")

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(migrateDB)
	g.ApplyBasic(
		Profile{},
		Tag{},
		Prompt{},
		PromptTag{},
		CopyEvent{},
		Setting{},
	)
	g.Execute()
	fmt.Println("Model generation complete!")
}

// Migrate applies the schema for all models. Used by GenerateModels,
// tests, and fresh deployments.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&Tag{},
		&Prompt{},
		&PromptTag{},
		&CopyEvent{},
		&Setting{},
	)
}
