// token emite un JWT de desarrollo para un actor del kardex.
//
// Uso: go run ./cmd/token -user u-1 -site bogota -role bodeguero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "ID del usuario (requerido)")
	siteID := flag.String("site", "", "sede asignada; vacío para admin")
	role := flag.String("role", entity.RoleBodeguero, "admin, bodeguero, vendedor o tecnico")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	switch *role {
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleTecnico:
	default:
		fail("rol desconocido %q", *role)
	}
	if *userID == "" {
		fail("-user es requerido")
	}
	if *role != entity.RoleAdmin && *siteID == "" {
		fail("-site es requerido para el rol %s", *role)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *siteID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fail("generar token: %v", err)
	}
	fmt.Println(tok)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
