// Package textutil reads numbers out of page text.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingCount = regexp.MustCompile(`^\s*(\d[\d,]*)`)

// ParseLeadingCount reads the number at the start of strings like
// "1,234 ★★★ ratings (12%)".
func ParseLeadingCount(s string) (int64, bool) {
	match := leadingCount.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(match[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

var firstNumber = regexp.MustCompile(`\d[\d,]*`)

// ParseFirstCount reads the first number anywhere in `s`,
// "There are 1,024 films" gives 1024.
func ParseFirstCount(s string) (int64, bool) {
	match := firstNumber.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
