package handler

import "time"

// formatPickupDate renders a stored YYYY-MM-DD date for display. Pickup
// dates arrive through more than one serialization path, so a malformed
// value degrades to the raw string instead of breaking the view.
func formatPickupDate(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("Mon, 02 Jan 2006")
}
