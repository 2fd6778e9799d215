package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Futureecho/walkthrough-capstone/config"
	"github.com/Futureecho/walkthrough-capstone/internal/container"
	"github.com/Futureecho/walkthrough-capstone/internal/domain/entity"
)

var (
	cfgPath string
	room    string
)

func main() {
	root := &cobra.Command{
		Use:   "walkthrough",
		Short: "Rental walkthrough photo pipelines: quality, coverage, comparison",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().StringVar(&room, "room", "default", "room type for checklists and prompts")

	root.AddCommand(qualityCmd(), coverageCmd(), compareCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*container.Container, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	log, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}

	return container.New(cfg, log), log, nil
}

func qualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality <image>...",
		Short: "Run the quality gate on local image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			for _, path := range args {
				sample, err := loadSample(path, room, 0)
				if err != nil {
					return err
				}
				verdict, err := c.Quality.Check(cmd.Context(), sample)
				if err != nil {
					return err
				}
				printJSON(verdict)
			}
			return nil
		},
	}
}

func coverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <image>...",
		Short: "Submit images for a room and report checklist coverage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			var last any
			for i, path := range args {
				sample, err := loadSample(path, room, i)
				if err != nil {
					return err
				}
				outcome, err := c.Orchestrator.SubmitImage(cmd.Context(), sample)
				if err != nil {
					return err
				}
				last = outcome
			}
			printJSON(last)
			return nil
		},
	}
}

func compareCmd() *cobra.Command {
	var moveInDir, moveOutDir string
	cmd := &cobra.Command{
		Use:   "compare --move-in <dir> --move-out <dir>",
		Short: "Compare a room's move-in and move-out image sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			moveIn, err := loadDir(moveInDir, room)
			if err != nil {
				return err
			}
			moveOut, err := loadDir(moveOutDir, room)
			if err != nil {
				return err
			}

			result, err := c.Comparison.CompareRoom(cmd.Context(), room, moveIn, moveOut)
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&moveInDir, "move-in", "", "directory of move-in reference images")
	cmd.Flags().StringVar(&moveOutDir, "move-out", "", "directory of move-out images")
	_ = cmd.MarkFlagRequired("move-in")
	_ = cmd.MarkFlagRequired("move-out")
	return cmd
}

// loadSample reads one image file. The position tag is the file name
// without extension, so guided captures can be named after their
// positions ("corner-left-far.jpg").
func loadSample(path, room string, seq int) (entity.ImageSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.ImageSample{}, fmt.Errorf("read image: %w", err)
	}
	base := filepath.Base(path)
	position := strings.TrimSuffix(base, filepath.Ext(base))
	return entity.ImageSample{
		ID:       base,
		Room:     room,
		Position: position,
		Seq:      seq,
		Data:     data,
	}, nil
}

func loadDir(dir, room string) ([]entity.ImageSample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	samples := make([]entity.ImageSample, 0, len(names))
	for i, name := range names {
		sample, err := loadSample(filepath.Join(dir, name), room, i)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(out))
}
