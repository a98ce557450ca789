package models

// OneOf reports whether v is empty or a member of allowed. Status-like fields
// are optional, so the empty string means "not selected".
func OneOf(v string, allowed []string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
