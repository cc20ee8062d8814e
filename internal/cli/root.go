// Package cli implementa carrierctl: administración de transportadoras y operadores desde
// la terminal usando la misma configuración que el servidor.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fulcrum-shipping/internal/bootstrap"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// Builder construye las dependencias; los tests lo sustituyen por uno en memoria.
type Builder func(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bootstrap.App, error)

type rootOptions struct {
	store   string
	debug   bool
	out     io.Writer
	build   Builder
	loadCfg func() (*config.Config, error)
}

// Execute punto de entrada de cmd/carrierctl.
func Execute() {
	cmd := NewRootCmd(bootstrap.New, config.Load, os.Stdout)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd arma el árbol de comandos con el builder y la carga de configuración dados.
func NewRootCmd(build Builder, loadCfg func() (*config.Config, error), out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out, build: build, loadCfg: loadCfg}

	cmd := &cobra.Command{
		Use:          "carrierctl",
		Short:        "Administra transportadoras personalizadas y operadores",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVarP(&opts.store, "store", "s", "", "clave de tienda (códigos separados por coma); por defecto STORE_KEY")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "logs en nivel debug")

	cmd.AddCommand(carriersCmd(opts))
	cmd.AddCommand(operatorsCmd(opts))
	cmd.AddCommand(resolveCmd(opts))
	return cmd
}

// app carga la configuración y construye las dependencias; el llamador debe cerrar.
func (o *rootOptions) app(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := o.loadCfg()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	level := cfg.App.LogLevel
	if o.debug {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Out: os.Stderr})
	return o.build(ctx, cfg, log)
}

func (o *rootOptions) storeKey(app *bootstrap.App) string {
	if o.store == "" {
		return app.StoreKey
	}
	return filestore.NormalizeStoreKey(o.store)
}
