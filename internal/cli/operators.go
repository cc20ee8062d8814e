package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// passwordEnv permite dar la contraseña sin dejarla en el historial de la shell.
const passwordEnv = "CARRIERCTL_PASSWORD"

func operatorsCmd(o *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "operators",
		Short: "Operadores de la API de administración",
	}
	c.AddCommand(operatorsAddCmd(o), operatorsListCmd(o))
	return c
}

func operatorsAddCmd(o *rootOptions) *cobra.Command {
	var in dto.RegisterOperatorRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Da de alta un operador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv(passwordEnv)
			}
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			op, err := app.AuthUC.RegisterOperator(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operador %s (%s) creado con id %s\n", op.Email, op.Role, op.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del operador")
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre visible")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (o "+passwordEnv+")")
	cmd.Flags().StringVar(&in.Role, "role", entity.RoleViewer, "admin | viewer")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func operatorsListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista operadores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ops, err := app.AuthUC.ListOperators(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tROLE\tSTATUS")
			for _, op := range ops {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.ID, op.Email, op.Role, op.Status)
			}
			return w.Flush()
		},
	}
}
