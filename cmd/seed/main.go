// seed genera un script SQL para poblar el catálogo de ítems a partir de un CSV
// exportado del sistema anterior (separado por ';', codificado en ISO-8859-1).
//
// Columnas esperadas: sku;nombre;descripcion;unidad;precio;nivel_reorden
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: seed_items.sql en el directorio actual.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exports del sistema anterior vienen en ISO-8859-1
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create("seed_items.sql")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de ítems importado del sistema anterior\n")
	out.WriteString("-- La cantidad en mano nace en cero: el stock de apertura se carga como movimientos de ajuste\n\n")

	count := 0
	skipped := 0
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue // encabezado
		}
		if len(rec) < 6 {
			skipped++
			continue
		}
		sku := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
		if err != nil {
			skipped++
			continue
		}
		reorder, err := decimal.NewFromString(strings.TrimSpace(rec[5]))
		if err != nil {
			skipped++
			continue
		}
		unit := strings.TrimSpace(rec[3])
		if unit == "" {
			unit = "und"
		}
		fmt.Fprintf(out,
			"INSERT INTO items (id, sku, name, description, unit_measure, price, reorder_level, quantity, active, created_at, updated_at)\n"+
				"VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', %s, %s, 0, true, now(), now())\n"+
				"ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, reorder_level = EXCLUDED.reorder_level;\n",
			escapeSQL(sku), escapeSQL(name), escapeSQL(strings.TrimSpace(rec[2])), escapeSQL(unit),
			price.String(), reorder.String(),
		)
		count++
	}

	fmt.Printf("Generado seed_items.sql: %d ítems, %d filas descartadas\n", count, skipped)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
