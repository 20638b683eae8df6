package main

import (
	"fmt"
	"path/filepath"

	"fhfa-go/server/internal/classifier"
	"fhfa-go/server/internal/config"
	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/intake"
	"fhfa-go/server/internal/models"

	"go.uber.org/zap"
)

// engineOptions builds session options from the configuration.
func engineOptions(log *zap.Logger, root string, conf *config.Config) (engine.Options, error) {
	var scale *models.Scale
	if path := conf.Assessment.ScaleFile; path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		var err error
		scale, err = models.LoadScale(path)
		if err != nil {
			return engine.Options{}, err
		}
		log.Info("Scale definition loaded", zap.String("scale", scale.Name), zap.Int("items", len(scale.Items)))
	}

	opts := engine.Options{
		Extractor: intake.NewExtractor(scale, conf.Assessment.ScaleThreshold),
	}

	if conf.Classifier.Enabled {
		collab, err := classifier.NewHTTPCollaborator(classifier.HTTPConfig{
			BaseURL:     conf.Classifier.BaseURL,
			APIKey:      conf.Classifier.APIKey,
			Model:       conf.Classifier.Model,
			Timeout:     conf.Classifier.Timeout,
			MaxTokens:   conf.Classifier.MaxTokens,
			Temperature: conf.Classifier.Temperature,
		})
		if err != nil {
			return engine.Options{}, fmt.Errorf("configure classifier: %w", err)
		}
		opts.Collaborator = collab
		log.Info("AI script generation enabled", zap.String("model", conf.Classifier.Model))
	}
	return opts, nil
}
