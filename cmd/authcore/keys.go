package main

import (
	"fmt"

	"github.com/spf13/cobra"

	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
)

func keysCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Genera el par de claves ed25519 de firma",
		RunE: func(_ *cobra.Command, _ []string) error {
			keys, err := jwtx.Generate()
			if err != nil {
				return err
			}
			if err := keys.Save(out); err != nil {
				return err
			}
			fmt.Println("clave privada escrita en", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "./data/authcore.key", "path destino de la clave privada (PEM)")
	return cmd
}
