// issue_token emite un JWT para operar la API cuando JWT_SECRET está configurado.
//
// Uso: go run ./cmd/issue_token -user ops -role editor [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Categorias-api/pkg/config"
	"github.com/jhoicas/Categorias-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "identificador del usuario (sub)")
	role := flag.String("role", "editor", "rol: admin | editor | viewer")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "falta -user")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
