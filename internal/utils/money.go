package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupees renders an integer rupee amount with Indian digit grouping,
// e.g. 123456 -> "Rs 1,23,456".
func FormatRupees(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sRs %s", sign, groupIndian(amount))
}

// ParseRupeesToInt parses "Rs 1,234" or "1234" into an integer rupee amount.
func ParseRupeesToInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "rs")
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(",", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid rupee amount")
	}
	return strconv.ParseInt(s, 10, 64)
}

func groupIndian(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	// last three digits, then groups of two
	head := str[:len(str)-3]
	tail := str[len(str)-3:]
	var out strings.Builder
	rem := len(head) % 2
	if rem == 1 {
		out.WriteByte(head[0])
		head = head[1:]
		if len(head) > 0 {
			out.WriteByte(',')
		}
	}
	for i := 0; i < len(head); i += 2 {
		out.WriteString(head[i : i+2])
		if i+2 < len(head) {
			out.WriteByte(',')
		}
	}
	out.WriteByte(',')
	out.WriteString(tail)
	return out.String()
}
