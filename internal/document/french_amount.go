package document

import "strings"

// French legal documents state monetary amounts in words ("montant en
// toutes lettres"). Cents are not written out in this domain, amounts are
// floored to whole euros before conversion.

var frUnits = []string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit",
	"neuf", "dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
	"dix-sept", "dix-huit", "dix-neuf",
}

var frTens = map[int64]string{
	2: "vingt",
	3: "trente",
	4: "quarante",
	5: "cinquante",
	6: "soixante",
}

// AmountInWords converts a non-negative whole euro amount to French legal
// prose, e.g. 1230 -> "mille deux cent trente euros". Negative input is
// treated as zero.
func AmountInWords(amount int64) string {
	if amount <= 0 {
		return "zéro euro"
	}
	words := intWords(amount)
	if amount == 1 {
		return words + " euro"
	}
	return words + " euros"
}

// intWords spells out a positive integer, splitting by magnitude band.
// "mille" is invariant and never preceded by "un"; millions and milliards
// pluralize and recurse on the remainder.
func intWords(n int64) string {
	var parts []string

	bands := []struct {
		value    int64
		singular string
		plural   string
	}{
		{1_000_000_000, "milliard", "milliards"},
		{1_000_000, "million", "millions"},
	}
	for _, band := range bands {
		if n < band.value {
			continue
		}
		count := n / band.value
		n %= band.value
		if count == 1 {
			parts = append(parts, "un "+band.singular)
		} else {
			parts = append(parts, intWords(count)+" "+band.plural)
		}
	}

	if n >= 1000 {
		count := n / 1000
		n %= 1000
		if count == 1 {
			parts = append(parts, "mille")
		} else {
			// the multiplier is followed by "mille", so "cent" and
			// "quatre-vingt" stay invariant: "deux cent mille"
			parts = append(parts, belowThousand(count, true)+" mille")
		}
	}

	if n > 0 {
		parts = append(parts, belowThousand(n, false))
	}

	return strings.Join(parts, " ")
}

// belowThousand spells out 1..999. followed reports whether another number
// word comes after this group, which suppresses the final "s" of "cents"
// and "quatre-vingts".
func belowThousand(n int64, followed bool) string {
	if n < 100 {
		return belowHundred(n, followed)
	}
	hundreds, rest := n/100, n%100
	var head string
	if hundreds == 1 {
		head = "cent"
	} else {
		head = frUnits[hundreds] + " cent"
		if rest == 0 && !followed {
			head += "s"
		}
	}
	if rest == 0 {
		return head
	}
	return head + " " + belowHundred(rest, followed)
}

// belowHundred spells out 0..99 with the base-20 bands (70s and 90s) and
// the "-et-" elision for 21..71.
func belowHundred(n int64, followed bool) string {
	if n < 20 {
		return frUnits[n]
	}
	tens, unit := n/10, n%10
	switch tens {
	case 7, 9:
		base := "soixante"
		if tens == 9 {
			base = "quatre-vingt"
		}
		if tens == 7 && unit == 1 {
			return base + "-et-" + frUnits[10+unit]
		}
		return base + "-" + frUnits[10+unit]
	case 8:
		if unit == 0 {
			if followed {
				return "quatre-vingt"
			}
			return "quatre-vingts"
		}
		return "quatre-vingt-" + frUnits[unit]
	default:
		if unit == 0 {
			return frTens[tens]
		}
		if unit == 1 {
			return frTens[tens] + "-et-un"
		}
		return frTens[tens] + "-" + frUnits[unit]
	}
}
