package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/rental-finder/internal/geo"
	"github.com/evcraddock/rental-finder/internal/property"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTenant prints a tenant and their favorites in the selected format.
func printTenant(t *tenant.Tenant) error {
	if isJSON() {
		return printJSON(t)
	}

	fmt.Printf("Tenant #%d\n", t.ID)
	fmt.Printf("  Name:     %s\n", t.Name)
	fmt.Printf("  Email:    %s\n", t.Email)
	if t.PhoneNumber != "" {
		fmt.Printf("  Phone:    %s\n", t.PhoneNumber)
	}
	fmt.Printf("  Identity: %s\n", t.CognitoID)
	fmt.Println()

	if len(t.Favorites) == 0 {
		fmt.Println("No favorites.")
		return nil
	}
	fmt.Printf("Favorites (%d):\n", len(t.Favorites))
	return printPropertyTable(t.Favorites)
}

// printEnrichedProperty prints a single property with its location.
func printEnrichedProperty(p *property.EnrichedProperty) {
	fmt.Printf("Property #%d\n", p.ID)
	fmt.Printf("  Name:     %s\n", p.Name)
	fmt.Printf("  Address:  %s\n", formatAddress(p.Location.Location))
	fmt.Printf("  Location: %s\n", formatCoordinates(p.Location.Coordinates))
	fmt.Printf("  Rent:     $%s/mo\n", formatPrice(p.PricePerMonth))
	if p.Beds > 0 {
		fmt.Printf("  Beds:     %d\n", p.Beds)
	}
	if p.Baths > 0 {
		fmt.Printf("  Baths:    %g\n", p.Baths)
	}
	if p.SquareFeet > 0 {
		fmt.Printf("  Sqft:     %d\n", p.SquareFeet)
	}
	if p.PropertyType != "" {
		fmt.Printf("  Type:     %s\n", p.PropertyType)
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(props []*property.Property) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tRENT\tBED\tBATH"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%d\t%s\t$%s\t%d\t%g\n",
			p.ID, truncate(p.Name, 40), formatPrice(p.PricePerMonth), p.Beds, p.Baths); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printResidenceTable prints residences with their coordinates.
func printResidenceTable(props []*property.EnrichedProperty) error {
	if len(props) == 0 {
		fmt.Println("No current residences.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tADDRESS\tLOCATION"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-------\t--------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 30), truncate(formatAddress(p.Location.Location), 40),
			formatCoordinates(p.Location.Coordinates)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d residences\n", len(props))
	return nil
}

// formatPrice formats a rent amount rounded to whole units with thousands separators.
func formatPrice(amount float64) string {
	s := fmt.Sprintf("%d", int64(math.Round(amount)))

	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// formatCoordinates renders a point as "lat, lng" with five decimals.
func formatCoordinates(c geo.Coordinates) string {
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude)
}

// formatAddress joins the non-empty address parts.
func formatAddress(l property.Location) string {
	var parts []string
	for _, s := range []string{l.Address, l.City, l.State, l.PostalCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
