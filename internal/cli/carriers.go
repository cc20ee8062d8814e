package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
)

// syncFile formato del archivo de carriers sync.
type syncFile struct {
	Store    string           `yaml:"store"`
	Carriers []map[string]any `yaml:"carriers"`
}

func carriersCmd(o *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "carriers",
		Short: "Transportadoras del registro y su personalización",
	}
	c.AddCommand(carriersListCmd(o), carriersSyncCmd(o), carriersDeleteCmd(o), carriersCustomCmd(o))
	return c
}

func carriersListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista transportadoras con su personalización",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.AdminUC.List(cmd.Context(), o.storeKey(app))
			if err != nil {
				return err
			}
			if len(out.Carriers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(sin transportadoras)")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tTITLE\tACTIVE\tPRICE\tMIN\tMAX\tSTORES")
			for _, v := range out.Carriers {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\t%s\n",
					v.Code, v.Title, v.Active, num(v.Price), num(v.Minimum), num(v.Maximum), strings.Join(v.Stores, ","))
			}
			return w.Flush()
		},
	}
}

func num(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}

func carriersSyncCmd(o *rootOptions) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "sync FILE",
		Short: "Reconciliar las transportadoras declaradas en un YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var f syncFile
			if err := yaml.Unmarshal(b, &f); err != nil {
				return fmt.Errorf("%s: %w: %v", args[0], domain.ErrMalformedDocument, err)
			}

			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			storeKey := o.storeKey(app)
			if o.store == "" && f.Store != "" {
				storeKey = filestore.NormalizeStoreKey(f.Store)
			}

			failed := 0
			for i, entry := range f.Carriers {
				res, err := app.ReconcileUC.Reconcile(cmd.Context(), storeKey, entry)
				code, _ := entry["code"].(string)
				switch {
				case err != nil:
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: error: %v\n", i+1, code, err)
				case !res.OK:
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s HTTP %d %s\n", i+1, code, res.Method, res.Status, res.Message)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s\n", i+1, code, res.Method)
				}
				if failed > 0 && failFast {
					break
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d de %d transportadoras fallaron", failed, len(f.Carriers))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "detenerse en el primer fallo")
	return cmd
}

func carriersDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CODE",
		Short: "Borra la transportadora del registro y su personalización",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.AdminUC.Delete(cmd.Context(), o.storeKey(app), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: registro=%t personalización=%t\n", res.Code, res.DeletedInCommerce, res.StateDeleted)
			return nil
		},
	}
}

func carriersCustomCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "customizations",
		Short: "Muestra las personalizaciones guardadas de la tienda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.AdminUC.Customizations(cmd.Context(), o.storeKey(app))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
