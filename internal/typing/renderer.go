package typing

import "fmt"

// Indicator renders the display string for a typing set. This is the
// contract consumed by the UI layer:
//
//	0 typists -> no indicator
//	1 typist  -> "X is typing..."
//	2 typists -> "X and Y are typing..."
//	3 or more -> a generic message
func Indicator(users []string) string {
	switch len(users) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s is typing...", users[0])
	case 2:
		return fmt.Sprintf("%s and %s are typing...", users[0], users[1])
	default:
		return "Many people are typing..."
	}
}
