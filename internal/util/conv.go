package util

import (
	"strconv"
	"strings"
)

// ParsePositiveInt 解析路径或查询参数中的正整数
func ParsePositiveInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, NewValidationError("%s must be a positive integer", name)
	}
	return n, nil
}

// ParseIDList parses a comma separated list such as "1,2,3". Empty items are skipped.
func ParseIDList(s, name string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ParsePositiveInt(part, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
