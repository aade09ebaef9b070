package simulator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/chrisdamba/shelfsim/internal/cloudwriter"
	"github.com/chrisdamba/shelfsim/internal/models"
)

// ShelfSettings echoes the kitchen layout a run used.
type ShelfSettings struct {
	HotCapacity      int     `yaml:"hot_capacity"`
	ColdCapacity     int     `yaml:"cold_capacity"`
	FrozenCapacity   int     `yaml:"frozen_capacity"`
	OverflowCapacity int     `yaml:"overflow_capacity"`
	SingleTempDecay  float64 `yaml:"single_temp_decay_modifier"`
	OverflowDecay    float64 `yaml:"overflow_decay_modifier"`
	IngestionRate    int     `yaml:"ingestion_rate"`
	MinPickupDelay   int     `yaml:"min_pickup_delay"`
	MaxPickupDelay   int     `yaml:"max_pickup_delay"`
}

// Report is the YAML document written at the end of a run.
type Report struct {
	models.RunSummary `yaml:",inline"`
	InputFile         string        `yaml:"input_file,omitempty"`
	Settings          ShelfSettings `yaml:"settings"`
}

func NewReport(config *models.Config, summary models.RunSummary) Report {
	return Report{
		RunSummary: summary,
		InputFile:  config.InputFile,
		Settings: ShelfSettings{
			HotCapacity:      config.HotShelfCapacity,
			ColdCapacity:     config.ColdShelfCapacity,
			FrozenCapacity:   config.FrozenShelfCapacity,
			OverflowCapacity: config.OverflowShelfCapacity,
			SingleTempDecay:  config.SingleTempDecayModifier,
			OverflowDecay:    config.OverflowDecayModifier,
			IngestionRate:    config.IngestionRate,
			MinPickupDelay:   config.MinPickupDelay,
			MaxPickupDelay:   config.MaxPickupDelay,
		},
	}
}

func WriteReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

// ReadReport parses a report written by WriteReport.
func ReadReport(r io.Reader) (Report, error) {
	var report Report
	if err := yaml.NewDecoder(r).Decode(&report); err != nil {
		return Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

// SaveReport writes the report to config.ReportFile. With a cloud output
// destination the file is also uploaded next to the event objects.
func SaveReport(ctx context.Context, config *models.Config, report Report) error {
	var buf bytes.Buffer
	if err := WriteReport(&buf, report); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(config.ReportFile), os.ModePerm); err != nil {
		return err
	}
	if err := os.WriteFile(config.ReportFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logrus.Infof("Run report written to %s", config.ReportFile)

	if config.OutputDestination != models.OutputDestinationCloud {
		return nil
	}
	factory, err := cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
	if err != nil {
		return fmt.Errorf("failed to create cloud writer factory: %w", err)
	}
	return UploadReport(factory, config.CloudStorage.BucketName, config.OutputFolder, report.RunID, buf.Bytes())
}

func UploadReport(factory cloudwriter.CloudWriterFactory, bucket, folder, runID string, data []byte) error {
	objectPath := path.Join(folder, "reports", runID+".yaml")
	w, err := factory.NewWriter(bucket, objectPath)
	if err != nil {
		return err
	}
	if ct, ok := w.(cloudwriter.ContentTyper); ok {
		ct.SetContentType("application/yaml")
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	logrus.Infof("Run report uploaded to %s/%s", bucket, objectPath)
	return nil
}
