package notify

import (
	"fmt"
	"strings"
)

// FormatGBP formats an amount as pounds with thousands separators, e.g. £1,234.50
func FormatGBP(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := "£" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(intPart string) string {
	n := len(intPart)
	if n <= 3 {
		return intPart
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}
