// seed_catalog genera un script SQL para poblar bodegas y productos a partir de un catálogo XML
// (exportado por el sistema anterior, normalmente en ISO-8859-1 o Windows-1252).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml del directorio actual y escribe en stdout.
//
// Formato esperado:
//
//	<catalogo>
//	  <bodegas>
//	    <bodega codigo="WH-01" nombre="Principal" ubicacion="Calle 1" capacidad="1000" telefono="555"/>
//	  </bodegas>
//	  <productos>
//	    <producto codigo_barras="7701" nombre="Martillo" precio="12.50" cantidad="5" categoria="Herramientas">Descripción</producto>
//	  </productos>
//	</catalogo>
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Bodegas   []bodega   `xml:"bodegas>bodega"`
	Productos []producto `xml:"productos>producto"`
}

type bodega struct {
	Codigo    string `xml:"codigo,attr"`
	Nombre    string `xml:"nombre,attr"`
	Ubicacion string `xml:"ubicacion,attr"`
	Capacidad string `xml:"capacidad,attr"`
	Telefono  string `xml:"telefono,attr"`
}

type producto struct {
	CodigoBarras string `xml:"codigo_barras,attr"`
	Nombre       string `xml:"nombre,attr"`
	Precio       string `xml:"precio,attr"`
	Cantidad     string `xml:"cantidad,attr"`
	Categoria    string `xml:"categoria,attr"`
	Descripcion  string `xml:",chardata"`
}

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	c, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		file, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	nWh, nProd, skipped, err := writeSQL(out, c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d bodegas, %d productos (%d descartados)\n", nWh, nProd, skipped)
}

// parseCatalog decodifica el XML; ISO-8859-1 y Windows-1252 se convierten a UTF-8.
func parseCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "iso8859-1", "latin1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "windows-1252", "cp1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// writeSQL escribe los INSERT idempotentes. Los productos con datos inválidos se descartan.
func writeSQL(w io.Writer, c *catalogo) (warehouses, products, skipped int, err error) {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de bodegas y productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	bodegas := append([]bodega(nil), c.Bodegas...)
	sort.Slice(bodegas, func(i, j int) bool { return bodegas[i].Codigo < bodegas[j].Codigo })

	b.WriteString("-- 1. Bodegas\n")
	for _, wh := range bodegas {
		code, name := strings.TrimSpace(wh.Codigo), strings.TrimSpace(wh.Nombre)
		if code == "" || name == "" {
			skipped++
			continue
		}
		capacity := 1000
		if n, err := strconv.Atoi(strings.TrimSpace(wh.Capacidad)); err == nil && n >= 0 {
			capacity = n
		}
		fmt.Fprintf(&b, "INSERT INTO warehouses (name, code, location, capacity, contact_phone)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', %s, %d, %s)\n",
			escapeSQL(name), escapeSQL(code), nullable(wh.Ubicacion), capacity, nullable(wh.Telefono))
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location;\n")
		warehouses++
	}

	b.WriteString("\n-- 2. Productos (el código de barras no se actualiza)\n")
	for _, p := range c.Productos {
		barcode, name := strings.TrimSpace(p.CodigoBarras), strings.TrimSpace(p.Nombre)
		price, perr := decimal.NewFromString(strings.TrimSpace(p.Precio))
		qty, qerr := strconv.Atoi(strings.TrimSpace(nonEmpty(p.Cantidad, "0")))
		if barcode == "" || name == "" || perr != nil || price.IsNegative() || qerr != nil || qty < 0 {
			skipped++
			continue
		}
		fmt.Fprintf(&b, "INSERT INTO products (name, barcode, price, quantity, description, category)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', %s, %d, %s, %s)\n",
			escapeSQL(name), escapeSQL(barcode), price.StringFixed(2), qty,
			nullable(p.Descripcion), nullable(p.Categoria))
		b.WriteString("ON CONFLICT (barcode) DO NOTHING;\n")
		products++
	}

	_, err = io.WriteString(w, b.String())
	return warehouses, products, skipped, err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func nullable(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
