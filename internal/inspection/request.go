// Package inspection models an inspection request and its findings.
package inspection

import (
	"fmt"
	"slices"
	"strings"
)

// Request is a validated inspection request.
type Request struct {
	Address string
	JobType string
}

// NewRequest trims and validates the inputs.
func NewRequest(address, jobType string) (Request, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Request{}, ErrAddressRequired
	}
	jobType = strings.ToLower(strings.TrimSpace(jobType))
	if jobType == "" {
		return Request{}, ErrJobTypeRequired
	}
	if !IsJobType(jobType) {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownJobType, jobType)
	}
	return Request{Address: address, JobType: jobType}, nil
}

// RoleLabel turns a job type slug into a title ("general-contractor" becomes
// "General Contractor").
func RoleLabel(jobType string) string {
	words := strings.Split(jobType, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// JobGroup is a named set of job types.
type JobGroup struct {
	Name  string
	Types []string
}

// JobGroups is the catalogue of job types, grouped by trade.
var JobGroups = []JobGroup{
	{"Main Contractors", []string{
		"general-contractor", "design-build-contractor", "project-manager",
		"architect", "structural-engineer", "quantity-surveyor",
	}},
	{"Structural & Building Work", []string{
		"masonry-contractor", "concrete-contractor", "foundation-specialist",
		"structural-steel", "roofing-contractor", "chimney-repair",
		"loft-conversion", "basement-conversion", "extension-builder",
	}},
	{"Plumbing & Water", []string{
		"plumber", "gas-safe-engineer", "drainage-contractor",
		"septic-tank", "water-damage-restoration",
	}},
	{"Electrical & Energy", []string{
		"electrician", "lighting-specialist", "solar-panel-installer",
		"smart-home-installer", "hvac-installer",
	}},
	{"Carpentry & Joinery", []string{
		"finish-carpenter", "framing-carpenter", "cabinet-maker",
		"decking-contractor", "door-window-fitter",
	}},
	{"Interior Finishes", []string{
		"drywall-contractor", "plasterer", "painter-decorator",
		"wallpaper-installer", "flooring-contractor", "carpet-installer",
		"tiling-contractor",
	}},
	{"Exterior Finishes", []string{
		"rendering-contractor", "exterior-painter", "siding-contractor",
		"paving-contractor",
	}},
	{"Kitchen & Bathroom", []string{
		"kitchen-renovation", "bathroom-renovation", "wet-room-specialist",
		"countertop-fabricator",
	}},
	{"Windows, Doors & Glass", []string{
		"glazier", "window-replacement", "upvc-door-installer",
		"skylight-installer", "shower-glass-installer",
	}},
	{"Outdoor & Landscaping", []string{
		"landscaper", "gardener", "tree-surgeon", "fence-contractor",
		"driveway-contractor", "patio-contractor", "lawn-irrigation",
	}},
	{"Specialty Contractors", []string{
		"fireplace-installer", "insulation-contractor", "soundproofing-contractor",
		"asbestos-removal", "mould-remediation", "pest-control",
		"security-installer", "home-theater-installer",
	}},
	{"Restoration & Damage Repair", []string{
		"fire-damage-restoration", "flood-restoration", "smoke-odour-removal",
		"insurance-claim-contractor",
	}},
	{"Maintenance & Cleaning", []string{
		"house-cleaner", "window-cleaner", "gutter-cleaning", "pressure-washing",
	}},
}

// IsJobType reports whether slug is in the catalogue.
func IsJobType(slug string) bool {
	for _, g := range JobGroups {
		if slices.Contains(g.Types, slug) {
			return true
		}
	}
	return false
}
