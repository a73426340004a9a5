package services

import (
	"strconv"
	"strings"
)

// VirtualMaterialPercent parses a project's virtual-material value into a
// percentage. The field is stored as free text and may carry a "%" suffix,
// thousands commas, or a fractional form: values in (0, 1] are read as
// fractions (0.15 means 15%), anything larger as a percentage directly.
func VirtualMaterialPercent(p Project) float64 {
	s := strings.TrimSpace(p.VirtualMaterialValue)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	if v <= 1 {
		return v * 100
	}
	return v
}

// VirtualMaterialAmount computes the uplift layered on top of a base value
// for activities flagged as using virtual material. Activities without the
// flag get 0 regardless of the project percentage. The displayed total is
// always base + amount; the uplift never replaces the base.
func VirtualMaterialAmount(base float64, a Activity, p Project) float64 {
	if !a.UseVirtualMaterial {
		return 0
	}
	return base * VirtualMaterialPercent(p) / 100
}
