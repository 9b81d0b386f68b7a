package main

import (
	"fmt"
	"io"

	"righthome-agent/internal/domain"
)

// printProperty writes a plain-text property sheet, used by the
// non-interactive property command.
func printProperty(w io.Writer, p domain.Property, favorite bool) {
	fmt.Fprintf(w, "#%s %s", p.ID, p.Name)
	if favorite {
		fmt.Fprint(w, "  (favorite)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Location)
	fmt.Fprintf(w, "%s · %s\n", p.Price.String(), p.Status)
	if p.Area != "" {
		fmt.Fprintf(w, "Area: %s\n", p.Area)
	}
	if p.Type != "" {
		fmt.Fprintf(w, "Type: %s\n", p.Type)
	}
	if p.YearBuilt != "" {
		fmt.Fprintf(w, "Built: %s\n", p.YearBuilt)
	}
	if p.Parking != "" {
		fmt.Fprintf(w, "Parking: %s\n", p.Parking)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
	if amenities := p.AmenityList(); len(amenities) > 0 {
		fmt.Fprintln(w, "\nAmenities:")
		for _, a := range amenities {
			fmt.Fprintf(w, "  - %s\n", a)
		}
	}
	if images := p.ImageList(); len(images) > 0 {
		fmt.Fprintln(w, "\nImages:")
		for _, img := range images {
			fmt.Fprintf(w, "  %s\n", img)
		}
	}
	if p.AgentName != "" {
		fmt.Fprintf(w, "\nAgent: %s", p.AgentName)
		if p.AgentPhone != "" {
			fmt.Fprintf(w, " · %s", p.AgentPhone)
		}
		if p.AgentEmail != "" {
			fmt.Fprintf(w, " · %s", p.AgentEmail)
		}
		fmt.Fprintln(w)
	}
}
