package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func resolveCmd(o *rootOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Resuelve las ofertas para un carrito guardado (JSON o YAML); - lee stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readCart(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			res := app.ResolveUC.Resolve(cmd.Context(), payload)
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "status=%s total=%s items=%d store=%s\n",
					res.Status, res.Cart.Total.String(), res.Cart.ItemCount, res.Cart.StoreOrUnknown())
				for _, ex := range res.Excluded {
					fmt.Fprintf(cmd.OutOrStdout(), "  excluida %s: %s %s\n", ex.Code, ex.Reason, ex.Detail)
				}
			}
			return printJSON(cmd.OutOrStdout(), res.Operations())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "mostrar estado y exclusiones")
	return cmd
}

// readCart acepta JSON o YAML y desenvuelve "rateRequest" como el webhook.
func readCart(stdin io.Reader, path string) (any, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var payload any
	if jerr := json.Unmarshal(b, &payload); jerr != nil {
		if yerr := yaml.Unmarshal(b, &payload); yerr != nil {
			return nil, fmt.Errorf("%s: ni JSON ni YAML: %v", path, jerr)
		}
	}
	if m, ok := payload.(map[string]any); ok {
		if inner, ok := m["rateRequest"]; ok && inner != nil {
			return inner, nil
		}
	}
	return payload, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
