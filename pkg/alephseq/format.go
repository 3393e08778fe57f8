package alephseq

// Format is the two letter record format written on the FMT line.
type Format string

const (
	FormatComputerFile Format = "CF"
	FormatContinuing   Format = "CR"
	FormatMap          Format = "MP"
	FormatMusic        Format = "MU"
	FormatMixed        Format = "MX"
	FormatVisual       Format = "VM"
	FormatBook         Format = "BK"
)

// Classify derives the record format from leader positions 6 (type of record)
// and 7 (bibliographic level). Leaders too short to carry those positions
// classify as books.
func Classify(leader string) Format {
	l6 := substr(leader, 6, 1)
	l7 := substr(leader, 7, 1)

	switch {
	case l6 == "m":
		return FormatComputerFile
	case oneOf(l6, "a", "t") && oneOf(l7, "b", "i", "s"):
		return FormatContinuing
	case oneOf(l6, "e", "f"):
		return FormatMap
	case oneOf(l6, "c", "d", "i", "j"):
		return FormatMusic
	case l6 == "p":
		return FormatMixed
	case oneOf(l6, "g", "k", "o", "r"):
		return FormatVisual
	default:
		return FormatBook
	}
}

func oneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
