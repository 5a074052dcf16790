package compositor

// LineGroup is a run of adjacent line records sharing a delivery note number
// and date.
type LineGroup struct {
	Key    string
	Number any
	Date   any
	Lines  []LineRecord
}

// GroupLines scans lines left to right and starts a new group whenever the
// (numberKey, dateKey) pair differs from the previous record's. Records with
// the same pair separated by another pair form two groups. Concatenating the
// groups' lines reproduces the input in order.
func GroupLines(lines []LineRecord, numberKey, dateKey string) []LineGroup {
	groups := make([]LineGroup, 0)
	prev := ""

	for _, line := range lines {
		number := line[numberKey]
		var date any
		if dateKey != "" {
			date = line[dateKey]
		}

		key := groupKey(number, date)
		if len(groups) == 0 || key != prev {
			groups = append(groups, LineGroup{Key: key, Number: number, Date: date})
			prev = key
		}
		last := &groups[len(groups)-1]
		last.Lines = append(last.Lines, line)
	}
	return groups
}

// groupKey joins the textual forms of number and date. A missing field
// contributes the empty string.
func groupKey(number, date any) string {
	n, _ := valueText(number)
	d, _ := valueText(date)
	return n + "\x00" + d
}
