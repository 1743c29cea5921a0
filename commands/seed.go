package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"concesionaria-api/database"
	"concesionaria-api/models"
	"concesionaria-api/services"
)

// CarCreator is the part of the car service the seeder uses.
type CarCreator interface {
	Create(ctx context.Context, req models.CreateCarRequest) (*models.CarView, error)
}

// SeedResult counts what happened to each entry of a seed file.
type SeedResult struct {
	Created int
	Skipped int
	Failed  int
}

func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json|file.yaml>",
		Short: "Load cars from a JSON or YAML file",
		Long: `Create every car listed in the file through the regular car service,
so images are downloaded and normalized exactly as for API requests.
Cars whose code already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cars, err := LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(a.db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			result := SeedCars(cmd.Context(), a.carService(), cars, cmd.OutOrStdout(), a.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "created: %d, skipped: %d, failed: %d\n", result.Created, result.Skipped, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d cars could not be created", result.Failed)
			}
			return nil
		},
	}
}

// LoadSeedFile reads a list of cars. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadSeedFile(path string) ([]models.CreateCarRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw []map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		// YAML keys match the JSON field names, so reuse the JSON mapping.
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", path, err)
		}
	}

	var cars []models.CreateCarRequest
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cars, nil
}

// SeedCars creates the cars one by one. Conflicts are skipped, other errors
// are reported and counted.
func SeedCars(ctx context.Context, creator CarCreator, cars []models.CreateCarRequest, out io.Writer, logger *zap.Logger) SeedResult {
	if ctx == nil {
		ctx = context.Background()
	}

	var result SeedResult
	for i, req := range cars {
		label := fmt.Sprintf("%s %s", req.Brand, req.Model)
		car, err := creator.Create(ctx, req)
		switch {
		case err == nil:
			result.Created++
			fmt.Fprintf(out, "created %s (id %d)\n", car.CarCode, car.ID)
		case errors.Is(err, services.ErrCarConflict):
			result.Skipped++
			fmt.Fprintf(out, "skipped %s: already exists\n", label)
		default:
			result.Failed++
			fmt.Fprintf(out, "failed %s: %v\n", label, err)
			logger.Warn("Seed entry failed", zap.Int("index", i), zap.String("car", label), zap.Error(err))
		}
	}
	return result
}
