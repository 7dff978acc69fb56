package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// WriteDOT writes a Graphviz digraph of the airports located in country and
// the legs connecting them. Nodes are labelled by city. It returns the number
// of edges written.
func WriteDOT(w io.Writer, airports map[string]models.Airport, legs []models.EnrichedRoute, country string) (int, error) {
	inCountry := make(map[string]models.Airport)
	for code, airport := range airports {
		if strings.EqualFold(airport.Country, country) {
			inCountry[code] = airport
		}
	}

	codes := make([]string, 0, len(inCountry))
	for code := range inCountry {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", dotID("airports_"+country))
	b.WriteString("\trankdir=LR;\n\tsize=\"10,8\";\n")
	b.WriteString("\tnode [shape=ellipse, style=filled, fontsize=11, fillcolor=lightcoral, fontcolor=black];\n")

	for _, code := range codes {
		fmt.Fprintf(&b, "\t%s [label=%s];\n", dotID(code), dotID(inCountry[code].City))
	}

	edges := 0
	for _, leg := range legs {
		_, okOrigin := inCountry[leg.Origin]
		_, okDestination := inCountry[leg.Destination]
		if !okOrigin || !okDestination {
			continue
		}
		fmt.Fprintf(&b, "\t%s -> %s;\n", dotID(leg.Origin), dotID(leg.Destination))
		edges++
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, fmt.Errorf("failed to write dot graph: %w", err)
	}
	return edges, nil
}

// dotID quotes s as a DOT identifier
func dotID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
