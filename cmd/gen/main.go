package main

import (
	"log"

	"legal-assistant/config"
	"legal-assistant/internal/database/model"

	"gorm.io/gen"
)

// Generates typed query helpers for the ingestion record models.
func main() {
	if err := config.Init("config.yaml"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:        "internal/database/query",
		ModelPkgPath:   "internal/database/model",
		Mode:           gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:  true,
		FieldCoverable: true,
	})

	g.ApplyBasic(model.Document{}, model.Chunk{}, model.ImportantDate{})

	g.Execute()
}
