// softrast - CPU software rasterizer
//
// Renders OBJ/GLB models or YAML scene files without a GPU, either to PNG
// files, to the terminal, or to a desktop window.
//
//	softrast render scene.yaml -o frame.png
//	softrast render model.glb --frames 36 -o spin.png
//	softrast view model.obj
//	softrast window scene.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrast/pkg/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "softrast",
		Short: "CPU software rasterizer",
		Long: "softrast renders 3D meshes on the CPU with triangle rasterization,\n" +
			"depth testing and per-pixel shading.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			render.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRenderCmd(), newViewCmd(), newWindowCmd())
	return root
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
