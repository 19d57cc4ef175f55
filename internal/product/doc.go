// Package product maps Dyson product-type codes to model metadata.
//
// The catalog is a closed table. Lookup is total: an unrecognised code
// returns a record whose capability flags are all false, so callers can
// reject it without special-casing a missing entry.
//
// Usage:
//
//	info := product.Lookup("276")
//	if !info.HasVacuum {
//	    return ErrNotVacuum
//	}
//	fmt.Println(info.Model) // Dyson 360 Heurist Robot Vacuum
package product
