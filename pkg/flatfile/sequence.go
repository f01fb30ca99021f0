package flatfile

import (
	"fmt"
	"strconv"
	"strings"
)

// NextID returns the next sequential id of the form prefix + zero-padded
// number, scanning column 0 of records. Ids that do not parse are ignored.
// The first id issued is floor.
func NextID(records []Record, prefix string, width, floor int) string {
	maxNum := floor - 1
	for _, r := range records {
		id := r.Field(0)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		num, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, maxNum+1)
}
