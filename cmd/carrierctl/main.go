// carrierctl administra transportadoras personalizadas y operadores.
//
// Uso:
//
//	carrierctl carriers list --store default
//	carrierctl carriers sync carriers.yaml
//	carrierctl carriers delete FUL
//	carrierctl operators add --email ana@example.com --role admin
//	carrierctl resolve cart.json
package main

import "github.com/jhoicas/fulcrum-shipping/internal/cli"

func main() {
	cli.Execute()
}
